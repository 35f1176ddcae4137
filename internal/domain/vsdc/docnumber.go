package vsdc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxDocumentNumberDigits ancho fijo del campo numérico invcNo del protocolo.
const maxDocumentNumberDigits = 9

var digitRuns = regexp.MustCompile(`\d+`)

// ResolveDocumentNumber deriva un número de documento válido para el protocolo
// a partir de un identificador libre (ej. "INV-2024-001"):
//
//  1. Si el string es puramente numérico, se parsea directo.
//  2. Si no, se toman las corridas de dígitos; gana la primera de longitud >= 3
//     (evita capturar un secuencial corto al final del código) y, si ninguna
//     califica, la más larga.
//  3. Sin dígitos, se deriva un número de 8 cifras de now.
//
// Valores de más de 9 dígitos se truncan a sus últimos 9 (ancho fijo del
// campo). La función es un mapeo determinista de (raw, now) a entero: el mismo
// identificador produce siempre el mismo número, sin aleatoriedad.
func ResolveDocumentNumber(raw string, now time.Time) int64 {
	trimmed := strings.TrimSpace(raw)

	if trimmed != "" && isAllDigits(trimmed) {
		return parseClamped(trimmed)
	}

	runs := digitRuns.FindAllString(trimmed, -1)
	if len(runs) > 0 {
		return parseClamped(pickRun(runs))
	}

	// Último recurso: número de 8 cifras derivado del reloj (DDHHMMSS).
	stamp := now.Format("20060102150405")
	return parseClamped(stamp[len(stamp)-8:])
}

func pickRun(runs []string) string {
	for _, r := range runs {
		if len(r) >= 3 {
			return r
		}
	}
	longest := runs[0]
	for _, r := range runs[1:] {
		if len(r) > len(longest) {
			longest = r
		}
	}
	return longest
}

func parseClamped(digits string) int64 {
	if len(digits) > maxDocumentNumberDigits {
		digits = digits[len(digits)-maxDocumentNumberDigits:]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

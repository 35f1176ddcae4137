package vsdc

import "unicode"

// tinLength longitud del TIN ruandés (solo dígitos).
const tinLength = 9

// IsValidTIN verifica que el TIN tenga exactamente 9 dígitos una vez
// eliminados separadores. No consulta al registro de contribuyentes: es un
// chequeo de forma para advertir temprano, no para rechazar la factura
// (el VSDC responde 884 cuando el TIN no existe).
func IsValidTIN(tin string) bool {
	digits := extractDigits(tin)
	return len(digits) == tinLength
}

func extractDigits(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}

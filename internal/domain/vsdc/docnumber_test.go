package vsdc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/vsdc-relay/internal/domain/vsdc"
)

var fixedNow = time.Date(2024, 7, 15, 10, 30, 45, 0, time.UTC)

func TestResolveDocumentNumber(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int64
	}{
		{"puramente numérico", "123456", 123456},
		{"código de factura estándar", "INV-000061", 61},
		{"prefiere la primera corrida de 3+ dígitos", "INV-2024-001", 2024},
		{"ignora secuencial corto al final", "ABC-12345-07", 12345},
		{"sin corrida de 3+, usa la más larga", "A1-B22", 22},
		{"espacios alrededor", "  INV-000500  ", 500},
		{"más de 9 dígitos se trunca a los últimos 9", "12345678901", 345678901},
		{"numérico con ceros a la izquierda", "000000061", 61},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, vsdc.ResolveDocumentNumber(tc.raw, fixedNow),
				"%q debe resolver a %d", tc.raw, tc.want)
		})
	}
}

// Sin un solo dígito en el identificador, el número sale del reloj:
// las últimas 8 cifras de YYYYMMDDHHMMSS.
func TestResolveDocumentNumber_SinDigitosUsaReloj(t *testing.T) {
	got := vsdc.ResolveDocumentNumber("SIN-DIGITOS", fixedNow)
	// 20240715103045 -> "15103045"
	assert.Equal(t, int64(15103045), got)
}

// La resolución es una función pura: mismo identificador, mismo número,
// siempre dentro del rango [0, 999999999]. El offset aleatorio del sistema
// anterior rompía la idempotencia y se eliminó.
func TestResolveDocumentNumber_Determinista(t *testing.T) {
	inputs := []string{"INV-000061", "CN-2024-17", "987654321", "X-9-Y-88"}
	for _, raw := range inputs {
		first := vsdc.ResolveDocumentNumber(raw, fixedNow)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, vsdc.ResolveDocumentNumber(raw, fixedNow),
				"%q debe resolver siempre al mismo número", raw)
		}
		assert.GreaterOrEqual(t, first, int64(0))
		assert.LessOrEqual(t, first, int64(999999999))
	}
}

package vsdc_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/vsdc-relay/internal/domain/vsdc"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// VATFromInclusive: extracción de IVA de precios con impuesto incluido.
// La fórmula round(price*18/118, 2) es el contrato con el VSDC; si alguien la
// cambia, los totales dejan de cuadrar con lo que el dispositivo recalcula.
// ──────────────────────────────────────────────────────────────────────────────

func TestVATFromInclusive(t *testing.T) {
	cases := []struct {
		name  string
		price string
		rate  string
		want  string
	}{
		{"monto de referencia 2000 al 18%", "2000", "18", "305.08"},
		{"precio unitario 1000 al 18%", "1000", "18", "152.54"},
		{"centavos con redondeo hacia arriba", "117.99", "18", "18.00"},
		{"tasa cero devuelve cero", "5000", "0", "0"},
		{"precio cero", "0", "18", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := vsdc.VATFromInclusive(d(tc.price), d(tc.rate))
			assert.True(t, got.Equal(d(tc.want)),
				"VATFromInclusive(%s, %s) = %s, esperaba %s", tc.price, tc.rate, got, tc.want)
		})
	}
}

func TestVATFromExclusive(t *testing.T) {
	cases := []struct {
		name  string
		price string
		rate  string
		want  string
	}{
		{"base 2000 al 18%", "2000", "18", "360.00"},
		{"base 100 al 18%", "100", "18", "18.00"},
		{"tasa cero", "2000", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := vsdc.VATFromExclusive(d(tc.price), d(tc.rate))
			assert.True(t, got.Equal(d(tc.want)),
				"VATFromExclusive(%s, %s) = %s, esperaba %s", tc.price, tc.rate, got, tc.want)
		})
	}
}

// Las dos fórmulas no son inversas entre sí: sobre el mismo precio dan montos
// distintos. El transformador debe usar una sola convención por campo.
func TestVATFormulas_NoSonInversas(t *testing.T) {
	price := d("1000")
	rate := d("18")
	assert.False(t, vsdc.VATFromInclusive(price, rate).Equal(vsdc.VATFromExclusive(price, rate)),
		"inclusive y exclusive no deben coincidir sobre el mismo precio")
}

func TestExclusiveFromInclusive(t *testing.T) {
	got := vsdc.ExclusiveFromInclusive(d("1180"), d("18"))
	assert.True(t, got.Equal(d("1000")), "1180 con IVA incluido al 18%% debe dar base 1000, dio %s", got)
}

// ──────────────────────────────────────────────────────────────────────────────
// TaxCategory: 0 -> A, 18 -> B, otra -> C. "D" está reservada y nunca se emite.
// ──────────────────────────────────────────────────────────────────────────────

func TestTaxCategory(t *testing.T) {
	cases := []struct {
		rate string
		want string
	}{
		{"0", "A"},
		{"18", "B"},
		{"10", "C"},
		{"16.5", "C"},
		{"100", "C"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, vsdc.TaxCategory(d(tc.rate)),
			"tasa %s debe clasificar como %s", tc.rate, tc.want)
	}
}

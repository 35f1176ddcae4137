// Package vsdc contiene la lógica de dominio pura del protocolo fiscal:
// aritmética de IVA, resolución del número de documento y extracción de
// identificadores del documento origen.
package vsdc

import (
	"github.com/shopspring/decimal"

	pkgvsdc "github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

var hundred = decimal.NewFromInt(100)

// VATFromInclusive extrae el IVA de un precio que ya lo incluye:
// round(price * rate / (100 + rate), 2). Con tasa 0 devuelve 0.
func VATFromInclusive(price, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return price.Mul(rate).Div(hundred.Add(rate)).Round(2)
}

// VATFromExclusive calcula el IVA sobre un precio sin impuesto:
// round(price * rate / 100, 2).
//
// No es la inversa de VATFromInclusive: el transformador debe elegir una sola
// convención de precios por campo origen; mezclarlas produce un impuesto
// incorrecto sin levantar error.
func VATFromExclusive(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(rate).Div(hundred).Round(2)
}

// ExclusiveFromInclusive convierte un precio con IVA incluido a su precio sin
// impuesto: round(price / (1 + rate/100), 2).
func ExclusiveFromInclusive(price, rate decimal.Decimal) decimal.Decimal {
	return price.Div(decimal.NewFromInt(1).Add(rate.Div(hundred))).Round(2)
}

// TaxCategory clasifica una tasa de IVA en su cubeta del protocolo:
// 0% -> "A", 18% -> "B", cualquier otra -> "C". Ninguna tasa produce "D";
// la cubeta existe en el protocolo pero no se puebla.
func TaxCategory(rate decimal.Decimal) string {
	switch {
	case rate.IsZero():
		return pkgvsdc.TaxCategoryA
	case rate.Equal(decimal.NewFromInt(pkgvsdc.StandardVATRate)):
		return pkgvsdc.TaxCategoryB
	default:
		return pkgvsdc.TaxCategoryC
	}
}

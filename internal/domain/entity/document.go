package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind discrimina factura (venta) de nota crédito (reembolso).
// Cada tipo usa códigos de recibo y tablas de error distintas en el VSDC.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "invoice"
	KindCreditNote DocumentKind = "creditnote"
)

// String implementa fmt.Stringer.
func (k DocumentKind) String() string { return string(k) }

// IsCreditNote indica si el documento es una nota crédito.
func (k DocumentKind) IsCreditNote() bool { return k == KindCreditNote }

// EnvelopeKey es la clave de primer nivel bajo la que la plataforma de
// facturación anida el documento en el cuerpo del webhook.
func (k DocumentKind) EnvelopeKey() string { return string(k) }

// CustomFieldPair par {api_name, value} de la forma en lista de los campos
// personalizados. value puede llegar como string o número según la versión
// de la plataforma.
type CustomFieldPair struct {
	APIName string `json:"api_name"`
	Value   any    `json:"value"`
}

// ContactPerson datos de contacto del cliente en el documento origen.
type ContactPerson struct {
	Mobile string `json:"mobile"`
	Phone  string `json:"phone"`
}

// ContactFields campos personalizados con alcance de cliente (contacto),
// separados de los del documento y con nombres de campo propios.
type ContactFields struct {
	CustomFieldHash map[string]any    `json:"custom_field_hash"`
	CustomFields    []CustomFieldPair `json:"custom_fields"`
}

// LineItem línea del documento origen. Rate es el precio unitario y debe ser
// positivo. Quantity es puntero para distinguir la cantidad omitida (cuenta
// como 1) de una explícita, que debe ser positiva.
type LineItem struct {
	ItemID        string           `json:"item_id"`
	ItemClassCode string           `json:"item_class_code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Rate          decimal.Decimal  `json:"rate"`
	Quantity      *decimal.Decimal `json:"quantity"`

	// Campos opcionales de tasa por ítem; se prueban en este orden y se cae
	// a la tasa estándar si ninguno está presente.
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Tax           *decimal.Decimal `json:"tax"`
	TaxCategory   string           `json:"tax_category"`
}

// DisplayName nombre efectivo de la línea: name, o description como respaldo.
func (li LineItem) DisplayName() string {
	if s := strings.TrimSpace(li.Name); s != "" {
		return s
	}
	return strings.TrimSpace(li.Description)
}

// SourceDocument documento comercial entrante (factura o nota crédito) tal
// como lo entrega la plataforma de facturación. Inmutable una vez recibido;
// vive solo durante el procesamiento del webhook.
type SourceDocument struct {
	InvoiceNumber    string `json:"invoice_number"`
	CreditNoteNumber string `json:"creditnote_number"`
	CustomerName     string `json:"customer_name"`
	Date             string `json:"date"`
	InvoiceDate      string `json:"invoice_date"`

	LineItems []LineItem `json:"line_items"`

	// Los campos personalizados llegan como mapa y/o como lista de pares
	// según la versión de la plataforma; hay que revisar ambas formas.
	CustomFieldHash map[string]any    `json:"custom_field_hash"`
	CustomFields    []CustomFieldPair `json:"custom_fields"`

	Contact               ContactFields   `json:"contact"`
	ContactPersonsDetails []ContactPerson `json:"contact_persons_details"`

	// Solo notas crédito: facturas referenciadas por el reembolso.
	InvoicesCredited []CreditedInvoice `json:"invoices_credited"`
}

// CreditedInvoice referencia a la factura original de una nota crédito.
type CreditedInvoice struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// Identifier identificador libre del documento según su tipo.
func (d *SourceDocument) Identifier(kind DocumentKind) string {
	if kind.IsCreditNote() && strings.TrimSpace(d.CreditNoteNumber) != "" {
		return strings.TrimSpace(d.CreditNoteNumber)
	}
	return strings.TrimSpace(d.InvoiceNumber)
}

// DateRaw fecha del documento: date, o invoice_date como respaldo.
func (d *SourceDocument) DateRaw() string {
	if d.Date != "" {
		return d.Date
	}
	return d.InvoiceDate
}

// CustomerMobile móvil del primer contacto (mobile, luego phone); vacío si no hay.
func (d *SourceDocument) CustomerMobile() string {
	if len(d.ContactPersonsDetails) == 0 {
		return ""
	}
	first := d.ContactPersonsDetails[0]
	if first.Mobile != "" {
		return first.Mobile
	}
	return first.Phone
}

// OriginalInvoiceIdentifier identificador de la factura original referenciada
// por la nota crédito; vacío si el reembolso no referencia ninguna.
func (d *SourceDocument) OriginalInvoiceIdentifier() string {
	if len(d.InvoicesCredited) == 0 {
		return ""
	}
	return strings.TrimSpace(d.InvoicesCredited[0].InvoiceNumber)
}

// FieldAsString convierte un valor de campo personalizado a string recortado.
// Los valores numéricos (TINs largos llegan a veces como números) se formatean
// sin notación exponencial.
func FieldAsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", t), "00"), ".")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalTransaction envío fiscal aceptado por el VSDC. Además de servir como
// historial, es el mapeo de idempotencia: la clave (kind, source_document_id)
// fija el número de documento, de modo que una reentrega del mismo webhook
// reutiliza el número ya emitido en vez de generar uno nuevo.
type FiscalTransaction struct {
	ID               string
	Kind             DocumentKind
	SourceDocumentID string
	DocumentNumber   int64
	ReceiptNumber    string
	CustomerName     string
	CustomerTIN      string
	TotalAmount      decimal.Decimal
	TaxAmount        decimal.Decimal
	ReceiptSignature string
	InternalData     string
	SdcID            string
	CreatedAt        time.Time
}

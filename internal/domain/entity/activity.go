package entity

import "time"

// Estados de una actividad de webhook.
const (
	ActivityStatusSuccess = "SUCCESS"
	ActivityStatusFailed  = "FAILED"
)

// WebhookActivity registro de auditoría de una invocación del webhook: qué
// documento llegó, en qué terminó y cuánto tardó. Fallos al escribirlo nunca
// afectan el resultado del procesamiento.
type WebhookActivity struct {
	ID               string
	Kind             DocumentKind
	SourceDocumentID string
	BusinessTIN      string
	Status           string
	OutcomeCategory  string // success, validation_error, transport_error o la categoría del rechazo
	ResultCode       string // resultCd del VSDC si hubo respuesta
	ResultMessage    string
	DocumentNumber   int64
	ReceiptNumber    string
	ErrorMessage     string
	PDFGenerated     bool
	PDFFilename      string
	TimingMs         int64
	CreatedAt        time.Time
	ProcessedAt      time.Time
}

// ActivityFilter filtros de consulta del historial de actividades.
type ActivityFilter struct {
	Kind   DocumentKind // vacío = todos
	Status string       // vacío = todos
	Limit  int
}

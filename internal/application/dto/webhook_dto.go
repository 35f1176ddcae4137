package dto

import (
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// ParseWebhookBody decodifica el cuerpo del webhook. La plataforma anida el
// documento bajo su clave de tipo ("invoice" / "creditnote"), pero algunas
// integraciones mandan el documento plano en la raíz; se aceptan ambas formas.
func ParseWebhookBody(body []byte, kind entity.DocumentKind) (*entity.SourceDocument, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("cuerpo del webhook no es JSON válido: %w", err)
	}

	payload := body
	if nested, ok := envelope[kind.EnvelopeKey()]; ok {
		payload = nested
	}

	var doc entity.SourceDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("documento del webhook no es válido: %w", err)
	}
	return &doc, nil
}

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebhookResponse respuesta del endpoint de webhook con el desenlace del
// procesamiento fiscal.
type WebhookResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	DocumentNumber int64  `json:"document_number,omitempty"`
	ReceiptNumber  string `json:"receipt_number,omitempty"`
	ResultCode     string `json:"result_code,omitempty"`
	Category       string `json:"category,omitempty"`
	Retryable      bool   `json:"retryable,omitempty"`
	ReceiptPDF     string `json:"receipt_pdf,omitempty"`
}

// ActivityResponse elemento del historial de actividades.
type ActivityResponse struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	SourceDocumentID string `json:"source_document_id"`
	BusinessTIN      string `json:"business_tin,omitempty"`
	Status           string `json:"status"`
	Category         string `json:"category"`
	ResultCode       string `json:"result_code,omitempty"`
	ResultMessage    string `json:"result_message,omitempty"`
	DocumentNumber   int64  `json:"document_number,omitempty"`
	ReceiptNumber    string `json:"receipt_number,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	PDFGenerated     bool   `json:"pdf_generated"`
	PDFFilename      string `json:"pdf_filename,omitempty"`
	TimingMs         int64  `json:"timing_ms"`
	ProcessedAt      string `json:"processed_at"`
}

// ActivityListResponse página del historial de actividades.
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Count      int                `json:"count"`
}

// FromActivity mapea la entidad de auditoría a su representación de API.
func FromActivity(a *entity.WebhookActivity) ActivityResponse {
	return ActivityResponse{
		ID:               a.ID,
		Kind:             a.Kind.String(),
		SourceDocumentID: a.SourceDocumentID,
		BusinessTIN:      a.BusinessTIN,
		Status:           a.Status,
		Category:         a.OutcomeCategory,
		ResultCode:       a.ResultCode,
		ResultMessage:    a.ResultMessage,
		DocumentNumber:   a.DocumentNumber,
		ReceiptNumber:    a.ReceiptNumber,
		ErrorMessage:     a.ErrorMessage,
		PDFGenerated:     a.PDFGenerated,
		PDFFilename:      a.PDFFilename,
		TimingMs:         a.TimingMs,
		ProcessedAt:      a.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/vsdc-relay/internal/application/dto"
	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// WebhookHandler recibe los webhooks de la plataforma de facturación y los
// releva al dispositivo fiscal.
type WebhookHandler struct {
	orchestrator *relay.WebhookOrchestrator
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(orchestrator *relay.WebhookOrchestrator) *WebhookHandler {
	return &WebhookHandler{orchestrator: orchestrator}
}

// HandleInvoice procesa el webhook de una factura.
// POST /api/v1/webhooks/zoho/invoice
func (h *WebhookHandler) HandleInvoice(c *fiber.Ctx) error {
	return h.handle(c, entity.KindInvoice)
}

// HandleCreditNote procesa el webhook de una nota crédito.
// POST /api/v1/webhooks/zoho/credit-note
func (h *WebhookHandler) HandleCreditNote(c *fiber.Ctx) error {
	return h.handle(c, entity.KindCreditNote)
}

func (h *WebhookHandler) handle(c *fiber.Ctx, kind entity.DocumentKind) error {
	doc, err := dto.ParseWebhookBody(c.Body(), kind)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}

	outcome := h.orchestrator.Process(c.Context(), kind, doc)
	return c.Status(outcome.HTTPStatus()).JSON(webhookResponse(outcome))
}

// webhookResponse arma el cuerpo de respuesta según el desenlace.
func webhookResponse(outcome *relay.ProcessingOutcome) dto.WebhookResponse {
	resp := dto.WebhookResponse{
		Category:       outcome.Category(),
		DocumentNumber: outcome.DocumentNumber,
	}
	switch outcome.Status {
	case relay.OutcomeSucceeded:
		resp.Status = "success"
		resp.Message = "documento registrado ante el dispositivo fiscal"
		resp.ResultCode = outcome.Interpretation.Code
		resp.ReceiptNumber = outcome.Response.ReceiptNumber()
		resp.ReceiptPDF = outcome.ReceiptFileRef
	case relay.OutcomeRejected:
		resp.Status = "rejected"
		resp.Message = outcome.Interpretation.Message
		resp.ResultCode = outcome.Interpretation.Code
		resp.Retryable = outcome.Interpretation.Retryable
	case relay.OutcomeTransformFailed:
		resp.Status = "invalid"
		resp.Message = outcome.ValidationErr.Error()
	case relay.OutcomeTransportFailed:
		resp.Status = "unavailable"
		resp.Message = outcome.TransportErr.Error()
		resp.Retryable = true
	}
	return resp
}

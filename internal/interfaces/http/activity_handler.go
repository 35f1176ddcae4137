package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/vsdc-relay/internal/application/dto"
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	"github.com/tu-usuario/vsdc-relay/internal/domain/repository"
)

// ActivityHandler expone el historial de actividades de webhooks.
type ActivityHandler struct {
	activities repository.WebhookActivityRepository
}

// NewActivityHandler construye el handler.
func NewActivityHandler(activities repository.WebhookActivityRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List devuelve las actividades recientes, con filtros opcionales.
// GET /api/v1/webhooks/activities?kind=invoice&status=FAILED&limit=20
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	filter := entity.ActivityFilter{
		Kind:   entity.DocumentKind(c.Query("kind")),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 50),
	}
	if filter.Kind != "" && filter.Kind != entity.KindInvoice && filter.Kind != entity.KindCreditNote {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser invoice o creditnote"})
	}

	list, err := h.activities.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.ActivityResponse, 0, len(list))
	for _, activity := range list {
		out = append(out, dto.FromActivity(activity))
	}
	return c.JSON(dto.ActivityListResponse{Activities: out, Count: len(out)})
}

// GetByID devuelve el detalle de una actividad.
// GET /api/v1/webhooks/activities/:id
func (h *ActivityHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	activity, err := h.activities.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if activity == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "actividad no encontrada"})
	}
	resp := dto.FromActivity(activity)
	return c.JSON(resp)
}

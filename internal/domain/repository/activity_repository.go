package repository

import (
	"context"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// WebhookActivityRepository persistencia del registro de auditoría de webhooks.
type WebhookActivityRepository interface {
	Create(ctx context.Context, activity *entity.WebhookActivity) error
	List(ctx context.Context, filter entity.ActivityFilter) ([]*entity.WebhookActivity, error)
	GetByID(ctx context.Context, id string) (*entity.WebhookActivity, error)
}

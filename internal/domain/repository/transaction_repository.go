package repository

import (
	"context"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// FiscalTransactionRepository persistencia de envíos fiscales aceptados.
// GetBySourceDocument es la consulta de idempotencia: devuelve (nil, nil)
// cuando el documento origen no tiene envío registrado.
type FiscalTransactionRepository interface {
	Save(ctx context.Context, tx *entity.FiscalTransaction) error
	GetBySourceDocument(ctx context.Context, kind entity.DocumentKind, sourceDocumentID string) (*entity.FiscalTransaction, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	"github.com/tu-usuario/vsdc-relay/internal/domain/repository"
)

var _ repository.WebhookActivityRepository = (*WebhookActivityRepo)(nil)

// WebhookActivityRepo implementación sobre PostgreSQL (usable con pool o tx).
type WebhookActivityRepo struct {
	q Querier
}

// NewWebhookActivityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebhookActivityRepository(q Querier) *WebhookActivityRepo {
	return &WebhookActivityRepo{q: q}
}

const activityColumns = `id, kind, source_document_id, business_tin, status, outcome_category, result_code, result_message, document_number, receipt_number, error_message, pdf_generated, pdf_filename, timing_ms, created_at, processed_at`

// Create persiste un registro de actividad de webhook.
func (r *WebhookActivityRepo) Create(ctx context.Context, activity *entity.WebhookActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	query := `
		INSERT INTO webhook_activities (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		activity.ID, activity.Kind.String(), activity.SourceDocumentID, activity.BusinessTIN,
		activity.Status, activity.OutcomeCategory, activity.ResultCode, activity.ResultMessage,
		activity.DocumentNumber, activity.ReceiptNumber, activity.ErrorMessage,
		activity.PDFGenerated, activity.PDFFilename, activity.TimingMs,
		activity.CreatedAt, activity.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("create webhook activity: %w", err)
	}
	return nil
}

// List devuelve actividades recientes aplicando los filtros (más nuevas primero).
func (r *WebhookActivityRepo) List(ctx context.Context, filter entity.ActivityFilter) ([]*entity.WebhookActivity, error) {
	query := `SELECT ` + activityColumns + ` FROM webhook_activities WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind.String())
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY processed_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list webhook activities: %w", err)
	}
	defer rows.Close()

	var list []*entity.WebhookActivity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, activity)
	}
	return list, rows.Err()
}

// GetByID obtiene una actividad por ID; (nil, nil) si no existe.
func (r *WebhookActivityRepo) GetByID(ctx context.Context, id string) (*entity.WebhookActivity, error) {
	query := `SELECT ` + activityColumns + ` FROM webhook_activities WHERE id = $1`
	activity, err := scanActivity(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook activity: %w", err)
	}
	return activity, nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row pgxScanner) (*entity.WebhookActivity, error) {
	var a entity.WebhookActivity
	var kindRaw string
	if err := row.Scan(
		&a.ID, &kindRaw, &a.SourceDocumentID, &a.BusinessTIN,
		&a.Status, &a.OutcomeCategory, &a.ResultCode, &a.ResultMessage,
		&a.DocumentNumber, &a.ReceiptNumber, &a.ErrorMessage,
		&a.PDFGenerated, &a.PDFFilename, &a.TimingMs,
		&a.CreatedAt, &a.ProcessedAt,
	); err != nil {
		return nil, err
	}
	a.Kind = entity.DocumentKind(kindRaw)
	return &a, nil
}

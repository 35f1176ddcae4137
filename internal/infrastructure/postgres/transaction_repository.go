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

var _ repository.FiscalTransactionRepository = (*FiscalTransactionRepo)(nil)

// FiscalTransactionRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla lleva un constraint único sobre (kind, source_document_id): es lo
// que hace idempotente la reentrega de un mismo webhook.
type FiscalTransactionRepo struct {
	q Querier
}

// NewFiscalTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalTransactionRepository(q Querier) *FiscalTransactionRepo {
	return &FiscalTransactionRepo{q: q}
}

// Save persiste una transacción fiscal aceptada. Si ya existe una para el
// mismo documento origen (reentrega), la inserción duplicada se ignora: el
// registro original es el válido.
func (r *FiscalTransactionRepo) Save(ctx context.Context, tx *entity.FiscalTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO fiscal_transactions (id, kind, source_document_id, document_number, receipt_number, customer_name, customer_tin, total_amount, tax_amount, receipt_signature, internal_data, sdc_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	customerTin := (*string)(nil)
	if tx.CustomerTIN != "" {
		customerTin = &tx.CustomerTIN
	}
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Kind.String(), tx.SourceDocumentID, tx.DocumentNumber, tx.ReceiptNumber,
		tx.CustomerName, customerTin, tx.TotalAmount, tx.TaxAmount,
		tx.ReceiptSignature, tx.InternalData, tx.SdcID, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("save fiscal transaction: %w", err)
	}
	return nil
}

// GetBySourceDocument busca la transacción del documento origen; (nil, nil) si no hay.
func (r *FiscalTransactionRepo) GetBySourceDocument(ctx context.Context, kind entity.DocumentKind, sourceDocumentID string) (*entity.FiscalTransaction, error) {
	query := `
		SELECT id, kind, source_document_id, document_number, receipt_number, customer_name, customer_tin, total_amount, tax_amount, receipt_signature, internal_data, sdc_id, created_at
		FROM fiscal_transactions WHERE kind = $1 AND source_document_id = $2`
	var tx entity.FiscalTransaction
	var kindRaw string
	var customerTin *string
	err := r.q.QueryRow(ctx, query, kind.String(), sourceDocumentID).Scan(
		&tx.ID, &kindRaw, &tx.SourceDocumentID, &tx.DocumentNumber, &tx.ReceiptNumber,
		&tx.CustomerName, &customerTin, &tx.TotalAmount, &tx.TaxAmount,
		&tx.ReceiptSignature, &tx.InternalData, &tx.SdcID, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal transaction: %w", err)
	}
	tx.Kind = entity.DocumentKind(kindRaw)
	if customerTin != nil {
		tx.CustomerTIN = *customerTin
	}
	return &tx, nil
}

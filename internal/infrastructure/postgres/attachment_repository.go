package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

var _ repository.AttachmentRepository = (*AttachmentRepo)(nil)

// AttachmentRepo implements AttachmentRepository over PostgreSQL (pool or tx).
type AttachmentRepo struct {
	q Querier
}

// NewAttachmentRepository builds the adapter. Pass a pool or tx (Querier).
func NewAttachmentRepository(q Querier) *AttachmentRepo {
	return &AttachmentRepo{q: q}
}

// Create persists a fiscal response attachment.
func (r *AttachmentRepo) Create(attachment *entity.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO attachments (id, invoice_id, name, mimetype, raw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		attachment.ID, attachment.InvoiceID, attachment.Name, attachment.Mimetype,
		attachment.Raw, attachment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// GetLatestByInvoice returns the most recent attachment of an invoice, nil
// when none exists.
func (r *AttachmentRepo) GetLatestByInvoice(invoiceID string) (*entity.Attachment, error) {
	query := `
		SELECT id, invoice_id, name, mimetype, raw, created_at
		FROM attachments WHERE invoice_id = $1
		ORDER BY created_at DESC LIMIT 1`
	var a entity.Attachment
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(
		&a.ID, &a.InvoiceID, &a.Name, &a.Mimetype, &a.Raw, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return &a, nil
}

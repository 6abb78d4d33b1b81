package repository

import "github.com/bringout/fiskal-api/internal/domain/entity"

// AttachmentRepository is the persistence port for fiscal response attachments.
type AttachmentRepository interface {
	Create(attachment *entity.Attachment) error
	// GetLatestByInvoice returns the most recent attachment of an invoice,
	// nil when none exists.
	GetLatestByInvoice(invoiceID string) (*entity.Attachment, error)
}

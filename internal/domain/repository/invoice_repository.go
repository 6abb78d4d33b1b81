package repository

import "github.com/bringout/fiskal-api/internal/domain/entity"

// InvoiceRepository is the persistence port for Invoice + lines.
type InvoiceRepository interface {
	// Create persists the header and its lines atomically.
	Create(invoice *entity.Invoice) error
	// GetByID loads the header with its lines; nil when absent.
	GetByID(id string) (*entity.Invoice, error)
	// GetByNumber resolves an ERP document number within a company; used to
	// find the reversed original of a refund.
	GetByNumber(companyID, number string) (*entity.Invoice, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
	// SetFiskalniBroj stores the receipt number once; returns ErrConflict if
	// the invoice already has one.
	SetFiskalniBroj(id, fiskalniBroj string) error
}

package billing

import (
	"context"

	"github.com/bringout/fiskal-api/internal/domain/entity"
)

// ReceiptPDFGenerator renders the receipt copy of a fiscalized invoice.
// The Maroto implementation lives in infrastructure/pdf.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, invoice *entity.Invoice, company *entity.Company, buyer *entity.Partner) ([]byte, error)
}

package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

// PDFUseCase renders the receipt copy of a fiscalized invoice. The copy is
// only available once the document carries a fiscal receipt number.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	partnerRepo repository.PartnerRepository
	generator   ReceiptPDFGenerator
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	partnerRepo repository.PartnerRepository,
	generator ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		partnerRepo: partnerRepo,
		generator:   generator,
	}
}

// DownloadReceiptPDF loads the invoice data, checks it is fiscalized and
// renders the PDF.
//
// Returns:
//   - (pdfBytes, filename, nil) on success
//   - domain.ErrNotFound when the invoice does not exist
//   - domain.ErrForbidden when it belongs to another company
//   - domain.ErrNotFiscalized when no receipt number is stored yet
func (uc *PDFUseCase) DownloadReceiptPDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: load invoice: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	if inv.FiskalniBroj == "" {
		return nil, "", domain.ErrNotFiscalized
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: load company: %w", err)
	}
	buyer, err := uc.partnerRepo.GetByID(inv.PartnerID)
	if err != nil || buyer == nil {
		return nil, "", fmt.Errorf("pdf: load buyer: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, inv, company, buyer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generation failed: %w", err)
	}

	filename = fmt.Sprintf("racun_%s.pdf", strings.ReplaceAll(inv.Number, "/", "_"))
	return pdfBytes, filename, nil
}

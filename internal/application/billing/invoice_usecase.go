package billing

import (
	"time"

	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

// InvoiceUseCase registers posted ERP documents and reads them back. The
// document lifecycle (draft, post, cancel) stays in the ERP; this service
// only needs the posted snapshot.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	partnerRepo repository.PartnerRepository
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, partnerRepo repository.PartnerRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo, partnerRepo: partnerRepo}
}

// Create registers a posted document with its lines.
func (uc *InvoiceUseCase) Create(companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	buyer, err := uc.partnerRepo.GetByID(in.PartnerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil || buyer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	if in.MoveType == entity.MoveTypeOutRefund && in.ReversedEntryID != "" {
		original, err := uc.invoiceRepo.GetByID(in.ReversedEntryID)
		if err != nil {
			return nil, err
		}
		if original == nil || original.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = "BAM"
	}
	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	now := time.Now()
	inv := &entity.Invoice{
		CompanyID:       companyID,
		PartnerID:       in.PartnerID,
		Number:          in.Number,
		MoveType:        in.MoveType,
		Currency:        currency,
		InvoiceDate:     invoiceDate,
		PaymentTermName: in.PaymentTermName,
		Narration:       in.Narration,
		ReversedEntryID: in.ReversedEntryID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, l := range in.Lines {
		inv.Lines = append(inv.Lines, entity.InvoiceLine{
			Name:        l.Name,
			ProductName: l.ProductName,
			ProductType: l.ProductType,
			DisplayType: l.DisplayType,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			TaxRate:     l.TaxRate,
			TaxTags:     l.TaxTags,
		})
	}
	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Get loads an invoice with lines, enforcing tenant ownership.
func (uc *InvoiceUseCase) Get(companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toInvoiceResponse(inv), nil
}

// List returns the company's invoices (headers only) with pagination.
func (uc *InvoiceUseCase) List(companyID string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		CompanyID:       inv.CompanyID,
		PartnerID:       inv.PartnerID,
		Number:          inv.Number,
		MoveType:        inv.MoveType,
		Currency:        inv.Currency,
		InvoiceDate:     inv.InvoiceDate.Format("2006-01-02"),
		PaymentTermName: inv.PaymentTermName,
		Narration:       inv.Narration,
		ReversedEntryID: inv.ReversedEntryID,
		FiskalniBroj:    inv.FiskalniBroj,
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          l.ID,
			Name:        l.Name,
			ProductName: l.ProductName,
			ProductType: l.ProductType,
			DisplayType: l.DisplayType,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			TaxRate:     l.TaxRate,
			TaxTags:     l.TaxTags,
		})
	}
	return resp
}

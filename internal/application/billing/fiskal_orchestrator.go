package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	domfiskal "github.com/bringout/fiskal-api/internal/domain/fiskal"
	"github.com/bringout/fiskal-api/internal/domain/repository"
	infrafiskal "github.com/bringout/fiskal-api/internal/infrastructure/fiskal"
	"github.com/bringout/fiskal-api/pkg/logger"
)

// SubmitError carries the fiscal server rejection so handlers can map it to
// an upstream failure instead of a client error.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string { return e.Message }

// FiskalOrchestrator drives the fiscalization cycle of a posted invoice:
//
//	validate partners → group PDV details → build payload → submit →
//	store response attachment → store fiscal receipt number
//
// The receipt number is written once; everything after a successful
// submission is read-only.
type FiskalOrchestrator struct {
	invoiceRepo    repository.InvoiceRepository
	companyRepo    repository.CompanyRepository
	partnerRepo    repository.PartnerRepository
	attachmentRepo repository.AttachmentRepository
	submitter      infrafiskal.FiscalSubmitter
	log            *logger.Logger
}

// NewFiskalOrchestrator builds the orchestrator with its dependencies.
func NewFiskalOrchestrator(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	partnerRepo repository.PartnerRepository,
	attachmentRepo repository.AttachmentRepository,
	submitter infrafiskal.FiscalSubmitter,
	log *logger.Logger,
) *FiskalOrchestrator {
	return &FiskalOrchestrator{
		invoiceRepo:    invoiceRepo,
		companyRepo:    companyRepo,
		partnerRepo:    partnerRepo,
		attachmentRepo: attachmentRepo,
		submitter:      submitter,
		log:            log,
	}
}

// documentContext is everything loaded around one invoice.
type documentContext struct {
	invoice  *entity.Invoice
	company  *entity.Company
	buyer    *entity.Partner
	seller   *entity.Partner
	reversed *entity.Invoice
}

// loadDocument fetches the invoice and its surroundings, enforcing tenant
// ownership.
func (o *FiskalOrchestrator) loadDocument(companyID, invoiceID string) (*documentContext, error) {
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("fiskal: load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	company, err := o.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, fmt.Errorf("fiskal: load company: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	buyer, err := o.partnerRepo.GetByID(inv.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("fiskal: load buyer: %w", err)
	}
	if buyer == nil {
		return nil, fmt.Errorf("%w: kupac %s", domain.ErrNotFound, inv.PartnerID)
	}

	var seller *entity.Partner
	if company.PartnerID != "" {
		seller, err = o.partnerRepo.GetByID(company.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("fiskal: load seller: %w", err)
		}
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: preduzeće nema partnera prodavca", domain.ErrInvalidInput)
	}

	var reversed *entity.Invoice
	if inv.MoveType == entity.MoveTypeOutRefund && inv.ReversedEntryID != "" {
		reversed, err = o.invoiceRepo.GetByID(inv.ReversedEntryID)
		if err != nil {
			return nil, fmt.Errorf("fiskal: load reversed entry: %w", err)
		}
	}

	return &documentContext{
		invoice:  inv,
		company:  company,
		buyer:    buyer,
		seller:   seller,
		reversed: reversed,
	}, nil
}

// Fiscalize validates the document, submits it to the fiscal server and
// persists the response attachment plus the receipt number.
//
// Returns:
//   - domain.ErrAlreadyFiscalized when a receipt number is already stored
//   - domain.ErrNotApplicable when the document is out of fiscalization scope
//   - domain.ErrFiskalNotConfigured when the company misses credentials
//   - *fiskal.ValidationError with all partner/document messages at once
//   - *SubmitError when the fiscal server rejects the document
func (o *FiskalOrchestrator) Fiscalize(ctx context.Context, companyID, invoiceID string) (*dto.FiskalizacijaResponse, error) {
	doc, err := o.loadDocument(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv := doc.invoice

	if inv.FiskalniBroj != "" {
		return nil, domain.ErrAlreadyFiscalized
	}
	if !domfiskal.Applicable(inv, doc.seller) {
		return nil, domain.ErrNotApplicable
	}
	if !doc.company.FiskalConfigured() {
		return nil, domain.ErrFiskalNotConfigured
	}
	if msgs := domfiskal.CheckInvoice(inv, doc.buyer, doc.seller); len(msgs) > 0 {
		return nil, &domfiskal.ValidationError{Messages: msgs}
	}

	env := infrafiskal.BuildInvoiceRequest(inv, doc.reversed, doc.buyer)

	res, err := o.submitter.Submit(ctx, doc.company.FiskalAPIHost, doc.company.FiskalAPIKey, env)
	if err != nil {
		return nil, fmt.Errorf("fiskal: submit: %w", err)
	}
	if !res.Success {
		o.log.Warn().
			Str("invoice_id", inv.ID).
			Str("number", inv.Number).
			Str("error", res.ErrorMessage).
			Msg("fiskalni server odbio dokument")
		return nil, &SubmitError{Message: res.ErrorMessage}
	}

	attachment := &entity.Attachment{
		InvoiceID: inv.ID,
		Name:      AttachmentName(inv.Number),
		Mimetype:  "application/json",
		Raw:       res.Raw,
		CreatedAt: time.Now(),
	}
	if err := o.attachmentRepo.Create(attachment); err != nil {
		return nil, fmt.Errorf("fiskal: store attachment: %w", err)
	}

	if err := o.invoiceRepo.SetFiskalniBroj(inv.ID, res.InvoiceNumber); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.ErrAlreadyFiscalized
		}
		return nil, fmt.Errorf("fiskal: store fiskalni broj: %w", err)
	}

	o.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("fiskalni_broj", res.InvoiceNumber).
		Msg("dokument fiskaliziran")

	return &dto.FiskalizacijaResponse{
		InvoiceID:    inv.ID,
		FiskalniBroj: res.InvoiceNumber,
		Attachment:   attachment.Name,
	}, nil
}

// Cancel applies the immutability policy: a fiscalized document is never
// returned to draft, only the fixed message is reported. Non-fiscalized
// documents may be cancelled by the ERP.
func (o *FiskalOrchestrator) Cancel(companyID, invoiceID string) (*dto.CancelResponse, error) {
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("fiskal: load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if inv.FiskalniBroj != "" {
		return &dto.CancelResponse{
			Allowed: false,
			Message: domain.ErrFiscalizedImmutable.Error(),
		}, nil
	}
	return &dto.CancelResponse{Allowed: true}, nil
}

// Duplicate asks the fiscal server to reprint the receipt. Requires a stored
// receipt number and the company PIN.
func (o *FiskalOrchestrator) Duplicate(ctx context.Context, companyID, invoiceID string) error {
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return fmt.Errorf("fiskal: load invoice: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if inv.FiskalniBroj == "" {
		return domain.ErrNotFiscalized
	}

	company, err := o.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return fmt.Errorf("fiskal: load company: %w", err)
	}
	if company.FiskalAPIHost == "" || company.FiskalPIN == "" {
		return domain.ErrFiskalNotConfigured
	}

	_, err = o.submitter.Duplicate(ctx, company.FiskalAPIHost, company.FiskalPIN, inv.ReceiptType(), inv.FiskalniBroj)
	return err
}

// Content builds the payload that would be (or was) submitted, without
// talking to the fiscal server.
func (o *FiskalOrchestrator) Content(companyID, invoiceID string) (*infrafiskal.InvoiceRequestEnvelope, error) {
	doc, err := o.loadDocument(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return infrafiskal.BuildInvoiceRequest(doc.invoice, doc.reversed, doc.buyer), nil
}

// ResponseJSON returns the stored fiscal server response of an invoice. When
// no attachment exists it returns a neutral body with receipt number 0.
func (o *FiskalOrchestrator) ResponseJSON(companyID, invoiceID string) ([]byte, string, error) {
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("fiskal: load invoice: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	attachment, err := o.attachmentRepo.GetLatestByInvoice(inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("fiskal: load attachment: %w", err)
	}
	if attachment == nil {
		return []byte(`{"invoiceNumber": "0"}`), AttachmentName(inv.Number), nil
	}
	return attachment.Raw, attachment.Name, nil
}

// AttachmentName derives the response attachment filename from the document
// number, with path-hostile slashes replaced.
func AttachmentName(number string) string {
	return strings.ReplaceAll(number, "/", "_") + "_fiskalni.json"
}

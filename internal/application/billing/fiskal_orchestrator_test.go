package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	domfiskal "github.com/bringout/fiskal-api/internal/domain/fiskal"
	infrafiskal "github.com/bringout/fiskal-api/internal/infrastructure/fiskal"
	"github.com/bringout/fiskal-api/pkg/logger"
)

// ── in-memory fakes ──

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) GetByNumber(companyID, number string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.CompanyID == companyID && inv.Number == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) SetFiskalniBroj(id, broj string) error {
	inv := f.invoices[id]
	if inv.FiskalniBroj != "" {
		return domain.ErrConflict
	}
	inv.FiskalniBroj = broj
	return nil
}

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(c *entity.Company) error           { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) { return f.companies[id], nil }
func (f *fakeCompanyRepo) Update(c *entity.Company) error           { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) UpdateFiskalSettings(c *entity.Company) error {
	f.companies[c.ID] = c
	return nil
}
func (f *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }

type fakePartnerRepo struct {
	partners map[string]*entity.Partner
}

func (f *fakePartnerRepo) Create(p *entity.Partner) error             { f.partners[p.ID] = p; return nil }
func (f *fakePartnerRepo) GetByID(id string) (*entity.Partner, error) { return f.partners[id], nil }
func (f *fakePartnerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Partner, error) {
	return nil, nil
}
func (f *fakePartnerRepo) Update(p *entity.Partner) error { f.partners[p.ID] = p; return nil }

type fakeAttachmentRepo struct {
	attachments []*entity.Attachment
}

func (f *fakeAttachmentRepo) Create(a *entity.Attachment) error {
	f.attachments = append(f.attachments, a)
	return nil
}

func (f *fakeAttachmentRepo) GetLatestByInvoice(invoiceID string) (*entity.Attachment, error) {
	for i := len(f.attachments) - 1; i >= 0; i-- {
		if f.attachments[i].InvoiceID == invoiceID {
			return f.attachments[i], nil
		}
	}
	return nil, nil
}

type fakeSubmitter struct {
	result       *infrafiskal.SubmitResult
	err          error
	submitted    []*infrafiskal.InvoiceRequestEnvelope
	duplicateErr error
	duplicates   int
}

func (f *fakeSubmitter) Submit(_ context.Context, host, apiKey string, env *infrafiskal.InvoiceRequestEnvelope) (*infrafiskal.SubmitResult, error) {
	f.submitted = append(f.submitted, env)
	return f.result, f.err
}

func (f *fakeSubmitter) Duplicate(_ context.Context, host, pin, receiptType, receiptNumber string) (bool, error) {
	f.duplicates++
	if f.duplicateErr != nil {
		return false, f.duplicateErr
	}
	return true, nil
}

// ── fixture ──

type fixture struct {
	orch        *FiskalOrchestrator
	invoices    *fakeInvoiceRepo
	companies   *fakeCompanyRepo
	partners    *fakePartnerRepo
	attachments *fakeAttachmentRepo
	submitter   *fakeSubmitter
}

func newFixture(result *infrafiskal.SubmitResult) *fixture {
	buyer := &entity.Partner{
		ID: "buyer-1", CompanyID: "co-1",
		Name: "Kupac d.o.o.", CountryCode: "BA",
		Street: "Zmaja od Bosne 12", City: "Sarajevo",
		StateName: "Kanton Sarajevo", Zip: "71000",
		VAT: "200123456789", CompanyRegistry: "4200123456789",
		Email: "kupac@example.ba",
	}
	seller := &entity.Partner{
		ID: "seller-1", CompanyID: "co-1",
		Name: "Prodavac d.o.o.", CountryCode: "BA",
		Street: "Ferhadija 5", City: "Sarajevo",
		StateName: "Kanton Sarajevo", Zip: "71000",
		VAT: "201987654321", CompanyRegistry: "4201987654321",
		Email: "prodavac@example.ba",
	}
	company := &entity.Company{
		ID: "co-1", Name: "Prodavac d.o.o.", VAT: "201987654321",
		PartnerID:     "seller-1",
		FiskalAPIHost: "http://fisk.test:3556", FiskalAPIKey: "key", FiskalPIN: "4201987654321",
	}
	inv := &entity.Invoice{
		ID: "inv-1", CompanyID: "co-1", PartnerID: "buyer-1",
		Number: "INV/2025/00001", MoveType: entity.MoveTypeOutInvoice,
		Currency: "BAM", InvoiceDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentTermName: "GOTOVINA",
		Lines: []entity.InvoiceLine{{
			Name: "Usluga", ProductType: entity.ProductTypeService,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
			TaxRate:   decimal.NewFromInt(17),
			TaxTags:   []string{"E"},
		}},
	}

	f := &fixture{
		invoices:    &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{"inv-1": inv}},
		companies:   &fakeCompanyRepo{companies: map[string]*entity.Company{"co-1": company}},
		partners:    &fakePartnerRepo{partners: map[string]*entity.Partner{"buyer-1": buyer, "seller-1": seller}},
		attachments: &fakeAttachmentRepo{},
		submitter:   &fakeSubmitter{result: result},
	}
	f.orch = NewFiskalOrchestrator(
		f.invoices, f.companies, f.partners, f.attachments, f.submitter,
		logger.New(logger.Config{Env: "test", Level: "error"}),
	)
	return f
}

func okResult() *infrafiskal.SubmitResult {
	return &infrafiskal.SubmitResult{
		Success:       true,
		InvoiceNumber: "123",
		Raw:           json.RawMessage(`{"invoiceNumber": "123", "status": "OK"}`),
	}
}

// ── tests ──

func TestFiscalize_Success(t *testing.T) {
	f := newFixture(okResult())

	res, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")
	require.NoError(t, err)

	assert.Equal(t, "123", res.FiskalniBroj)
	assert.Equal(t, "INV_2025_00001_fiskalni.json", res.Attachment)
	assert.Equal(t, "123", f.invoices.invoices["inv-1"].FiskalniBroj)

	require.Len(t, f.attachments.attachments, 1)
	assert.Equal(t, "application/json", f.attachments.attachments[0].Mimetype)

	require.Len(t, f.submitter.submitted, 1)
	payload := f.submitter.submitted[0].InvoiceRequest
	assert.Equal(t, "INV/2025/00001", payload.ErpDocument)
	assert.Equal(t, "Cash", payload.Payment[0].PaymentType)
}

func TestFiscalize_AlreadyFiscalized(t *testing.T) {
	f := newFixture(okResult())
	f.invoices.invoices["inv-1"].FiskalniBroj = "99"

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyFiscalized)
	assert.Empty(t, f.submitter.submitted)
}

func TestFiscalize_NotApplicableForeignSeller(t *testing.T) {
	f := newFixture(okResult())
	f.partners.partners["seller-1"].CountryCode = "HR"

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrNotApplicable)
}

func TestFiscalize_NotConfigured(t *testing.T) {
	f := newFixture(okResult())
	f.companies.companies["co-1"].FiskalAPIKey = ""

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrFiskalNotConfigured)
}

func TestFiscalize_ValidationFailure(t *testing.T) {
	f := newFixture(okResult())
	f.partners.partners["buyer-1"].CompanyRegistry = "kratko"

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")

	var vErr *domfiskal.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Messages)
	assert.Empty(t, f.submitter.submitted)
}

func TestFiscalize_GatewayRejection(t *testing.T) {
	f := newFixture(&infrafiskal.SubmitResult{
		Success:       false,
		ErrorMessage:  "duplicate",
		BlockingLevel: infrafiskal.BlockingLevelError,
	})

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")

	var sErr *SubmitError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "duplicate", sErr.Message)
	assert.Empty(t, f.invoices.invoices["inv-1"].FiskalniBroj)
	assert.Empty(t, f.attachments.attachments)
}

func TestFiscalize_WrongCompany(t *testing.T) {
	f := newFixture(okResult())

	_, err := f.orch.Fiscalize(context.Background(), "co-2", "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// A fiscalized document is never returned to draft; repeated cancel attempts
// report the same fixed message and never mutate the invoice.
func TestCancel_FiscalizedIsRejectedIdempotently(t *testing.T) {
	f := newFixture(okResult())
	f.invoices.invoices["inv-1"].FiskalniBroj = "123"

	for i := 0; i < 3; i++ {
		res, err := f.orch.Cancel("co-1", "inv-1")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, "Fiskalizirani dokumenti se ne mogu vraćati u pripremu", res.Message)
		assert.Equal(t, "123", f.invoices.invoices["inv-1"].FiskalniBroj)
	}
}

func TestCancel_NotFiscalizedIsAllowed(t *testing.T) {
	f := newFixture(okResult())

	res, err := f.orch.Cancel("co-1", "inv-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestDuplicate_RequiresFiskalniBroj(t *testing.T) {
	f := newFixture(okResult())

	err := f.orch.Duplicate(context.Background(), "co-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrNotFiscalized)
	assert.Zero(t, f.submitter.duplicates)
}

func TestDuplicate_Success(t *testing.T) {
	f := newFixture(okResult())
	f.invoices.invoices["inv-1"].FiskalniBroj = "123"

	err := f.orch.Duplicate(context.Background(), "co-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.submitter.duplicates)
}

func TestDuplicate_MissingPIN(t *testing.T) {
	f := newFixture(okResult())
	f.invoices.invoices["inv-1"].FiskalniBroj = "123"
	f.companies.companies["co-1"].FiskalPIN = ""

	err := f.orch.Duplicate(context.Background(), "co-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrFiskalNotConfigured)
}

func TestContent_BuildsPayloadWithoutSubmitting(t *testing.T) {
	f := newFixture(okResult())

	env, err := f.orch.Content("co-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "INV/2025/00001", env.InvoiceRequest.ErpDocument)
	assert.Empty(t, f.submitter.submitted)
}

func TestResponseJSON_DefaultsToZeroReceipt(t *testing.T) {
	f := newFixture(okResult())

	raw, name, err := f.orch.ResponseJSON("co-1", "inv-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoiceNumber": "0"}`, string(raw))
	assert.Equal(t, "INV_2025_00001_fiskalni.json", name)
}

func TestResponseJSON_ReturnsStoredAttachment(t *testing.T) {
	f := newFixture(okResult())

	_, err := f.orch.Fiscalize(context.Background(), "co-1", "inv-1")
	require.NoError(t, err)

	raw, name, err := f.orch.ResponseJSON("co-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "INV_2025_00001_fiskalni.json", name)
	assert.Contains(t, string(raw), `"invoiceNumber": "123"`)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	domfiskal "github.com/bringout/fiskal-api/internal/domain/fiskal"
)

// InvoiceHandler covers invoice registration and the fiscal operations
// (protected).
type InvoiceHandler struct {
	invoiceUC *billing.InvoiceUseCase
	orch      *billing.FiskalOrchestrator
	pdfUC     *billing.PDFUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, orch *billing.FiskalOrchestrator, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, orch: orch, pdfUC: pdfUC}
}

// Create registers a posted ERP document.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	if in.PartnerID == "" || in.Number == "" || in.MoveType == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "partner_id, number, move_type i lines su obavezni"})
	}
	if len(in.Number) > 16 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "number može imati najviše 16 znakova"})
	}
	invoice, err := h.invoiceUC.Create(companyID, in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "partner ili izvorni dokument nije pronađen"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "dokument sa tim brojem već postoji"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID loads an invoice with lines.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	invoice, err := h.invoiceUC.Get(companyID, c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// List returns the company's invoices.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "neispravni parametri stranice"})
	}
	invoices, err := h.invoiceUC.List(companyID, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoices)
}

// Fiskaliziraj runs the full fiscalization pipeline for one invoice.
// POST /api/invoices/:id/fiskaliziraj
func (h *InvoiceHandler) Fiskaliziraj(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	result, err := h.orch.Fiscalize(c.Context(), companyID, c.Params("id"))
	if err != nil {
		var vErr *domfiskal.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"code":     "VALIDATION",
				"messages": vErr.Messages,
			})
		}
		var sErr *billing.SubmitError
		if errors.As(err, &sErr) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FISKAL_SUBMIT_FAILED", Message: sErr.Message})
		}
		switch {
		case errors.Is(err, domain.ErrAlreadyFiscalized):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_FISCALIZED", Message: err.Error()})
		case errors.Is(err, domain.ErrNotApplicable):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_APPLICABLE", Message: err.Error()})
		case errors.Is(err, domain.ErrFiskalNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FISKAL_NOT_CONFIGURED", Message: err.Error()})
		}
		return invoiceError(c, err)
	}
	return c.JSON(result)
}

// Cancel reports the immutability policy for the document.
// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	result, err := h.orch.Cancel(companyID, c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	if !result.Allowed {
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	return c.JSON(result)
}

// Duplikat asks the fiscal server to reprint the receipt.
// GET /api/invoices/:id/duplikat
func (h *InvoiceHandler) Duplikat(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	if err := h.orch.Duplicate(c.Context(), companyID, c.Params("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFiscalized):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_FISCALIZED", Message: err.Error()})
		case errors.Is(err, domain.ErrFiskalNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FISKAL_NOT_CONFIGURED", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
			return invoiceError(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FISKAL_DUPLIKAT_FAILED", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"status": "OK"})
}

// FiskalniJSON returns the invoiceRequest body that would be submitted.
// GET /api/invoices/:id/fiskalni-json
func (h *InvoiceHandler) FiskalniJSON(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	env, err := h.orch.Content(companyID, c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(env)
}

// FiskalniOdgovor downloads the stored fiscal server response attachment.
// GET /api/invoices/:id/fiskalni-odgovor
func (h *InvoiceHandler) FiskalniOdgovor(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	raw, name, err := h.orch.ResponseJSON(companyID, c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(raw)
}

// ReceiptPDF renders the receipt copy of a fiscalized invoice.
// GET /api/invoices/:id/racun.pdf
func (h *InvoiceHandler) ReceiptPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadReceiptPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFiscalized) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_FISCALIZED", Message: err.Error()})
		}
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func invoiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "dokument nije pronađen"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "pristup odbijen"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

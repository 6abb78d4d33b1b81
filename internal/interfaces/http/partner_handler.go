package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
)

// PartnerHandler covers partner CRUD and the fiscalization pre-check
// (protected).
type PartnerHandler struct {
	uc *billing.PartnerUseCase
}

// NewPartnerHandler builds the handler.
func NewPartnerHandler(uc *billing.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// Create registers a partner.
// POST /api/partners
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var in dto.CreatePartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	if in.Name == "" || in.CountryCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name i country_code su obavezni"})
	}
	partner, err := h.uc.Create(companyID, in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "partner već postoji"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(partner)
}

// GetByID loads one partner.
// GET /api/partners/:id
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	partner, err := h.uc.Get(companyID, c.Params("id"))
	if err != nil {
		return partnerError(c, err)
	}
	return c.JSON(partner)
}

// List returns the company's partners.
// GET /api/partners
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "neispravni parametri stranice"})
	}
	partners, err := h.uc.List(companyID, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(partners)
}

// Update overwrites partner fields.
// PUT /api/partners/:id
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var in dto.UpdatePartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	partner, err := h.uc.Update(companyID, c.Params("id"), in)
	if err != nil {
		return partnerError(c, err)
	}
	return c.JSON(partner)
}

// Validate runs the FBiH partner checks without touching the fiscal server.
// POST /api/partners/:id/validate?company=true
func (h *PartnerHandler) Validate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	isCompany := c.QueryBool("company", true)
	result, err := h.uc.Validate(companyID, c.Params("id"), isCompany)
	if err != nil {
		return partnerError(c, err)
	}
	return c.JSON(result)
}

func partnerError(c *fiber.Ctx, err error) error {
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "partner nije pronađen"})
	}
	if err == domain.ErrForbidden {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "pristup odbijen"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

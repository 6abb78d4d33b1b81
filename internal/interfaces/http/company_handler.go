package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
)

// CompanyHandler covers the tenant lifecycle. Create is public so a new
// tenant can register before any user exists; the rest is protected.
type CompanyHandler struct {
	companyUC *billing.CompanyUseCase
}

func NewCompanyHandler(companyUC *billing.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{companyUC: companyUC}
}

// Create registers a new company.
// POST /api/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	company, err := h.companyUC.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name je obavezan"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// Me returns the caller's own company.
// GET /api/companies/me
func (h *CompanyHandler) Me(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	company, err := h.companyUC.Get(companyID)
	if err != nil {
		return companyError(c, err)
	}
	return c.JSON(company)
}

// Update changes the caller's own company (admin only).
// PUT /api/companies/me
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	company, err := h.companyUC.Update(companyID, in)
	if err != nil {
		return companyError(c, err)
	}
	return c.JSON(company)
}

func companyError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "preduzeće nije pronađeno"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

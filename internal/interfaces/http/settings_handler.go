package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
)

// SettingsHandler exposes the fiscal gateway settings (admin only).
type SettingsHandler struct {
	settingsUC *billing.SettingsUseCase
}

func NewSettingsHandler(settingsUC *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settingsUC: settingsUC}
}

// GetFiskal returns the company's fiscal settings with the API key masked.
// GET /api/settings/fiskal
func (h *SettingsHandler) GetFiskal(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	settings, err := h.settingsUC.GetFiskalSettings(companyID)
	if err != nil {
		return settingsError(c, err)
	}
	return c.JSON(settings)
}

// UpdateFiskal stores new fiscal settings for the company.
// PUT /api/settings/fiskal
func (h *SettingsHandler) UpdateFiskal(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token nevažeći"})
	}
	var in dto.FiskalSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "neispravan sadržaj zahtjeva"})
	}
	if in.FiskalAPIHost == "" || in.FiskalAPIKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fiskal_api_host i fiskal_api_key su obavezni"})
	}
	settings, err := h.settingsUC.UpdateFiskalSettings(companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyVATMissing) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VAT_MISSING", Message: err.Error()})
		}
		return settingsError(c, err)
	}
	return c.JSON(settings)
}

func settingsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "preduzeće nije pronađeno"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

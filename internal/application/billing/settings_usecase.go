package billing

import (
	"strings"
	"time"

	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

// SettingsUseCase reads and writes the per-company fiscal server settings.
// Admin-only; the role check happens in the HTTP layer.
type SettingsUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewSettingsUseCase builds the use case.
func NewSettingsUseCase(companyRepo repository.CompanyRepository) *SettingsUseCase {
	return &SettingsUseCase{companyRepo: companyRepo}
}

// GetFiskalSettings returns the settings with the API key masked.
func (uc *SettingsUseCase) GetFiskalSettings(companyID string) (*dto.FiskalSettingsResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.FiskalSettingsResponse{
		FiskalAPIHost:    company.FiskalAPIHost,
		FiskalAPIKey:     maskKey(company.FiskalAPIKey),
		FiskalPIN:        company.FiskalPIN,
		FiskalProduction: company.FiskalProduction,
	}, nil
}

// UpdateFiskalSettings stores the fiscal server credentials. The company
// must already have its PDV broj; returns ErrCompanyVATMissing otherwise.
func (uc *SettingsUseCase) UpdateFiskalSettings(companyID string, in dto.FiskalSettingsRequest) (*dto.FiskalSettingsResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if strings.TrimSpace(company.VAT) == "" {
		return nil, domain.ErrCompanyVATMissing
	}

	company.FiskalAPIHost = strings.TrimRight(in.FiskalAPIHost, "/")
	company.FiskalAPIKey = in.FiskalAPIKey
	company.FiskalPIN = in.FiskalPIN
	company.FiskalProduction = in.FiskalProduction
	company.UpdatedAt = time.Now()

	if err := uc.companyRepo.UpdateFiskalSettings(company); err != nil {
		return nil, err
	}
	return &dto.FiskalSettingsResponse{
		FiskalAPIHost:    company.FiskalAPIHost,
		FiskalAPIKey:     maskKey(company.FiskalAPIKey),
		FiskalPIN:        company.FiskalPIN,
		FiskalProduction: company.FiskalProduction,
	}, nil
}

// maskKey hides all but the last four characters of the API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

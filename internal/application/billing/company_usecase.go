package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

// CompanyUseCase manages tenant companies. Creation is public so a new
// tenant can register itself before the first user signs up.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	partnerRepo repository.PartnerRepository
}

func NewCompanyUseCase(companyRepo repository.CompanyRepository, partnerRepo repository.PartnerRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, partnerRepo: partnerRepo}
}

func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.NewString(),
		Name:      name,
		VAT:       strings.TrimSpace(in.VAT),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

func (uc *CompanyUseCase) Get(companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

func (uc *CompanyUseCase) Update(companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.VAT != nil {
		company.VAT = strings.TrimSpace(*in.VAT)
	}
	if in.PartnerID != nil {
		partner, err := uc.partnerRepo.GetByID(*in.PartnerID)
		if err != nil {
			return nil, err
		}
		if partner == nil || partner.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		company.PartnerID = *in.PartnerID
	}
	if in.Status != nil {
		company.Status = *in.Status
	}
	if err := uc.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		VAT:       c.VAT,
		PartnerID: c.PartnerID,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

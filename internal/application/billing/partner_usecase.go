package billing

import (
	"time"

	"github.com/bringout/fiskal-api/internal/application/dto"
	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	domfiskal "github.com/bringout/fiskal-api/internal/domain/fiskal"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

// PartnerUseCase covers partner CRUD plus the fiscalization pre-check.
type PartnerUseCase struct {
	partnerRepo repository.PartnerRepository
}

// NewPartnerUseCase builds the use case.
func NewPartnerUseCase(partnerRepo repository.PartnerRepository) *PartnerUseCase {
	return &PartnerUseCase{partnerRepo: partnerRepo}
}

// Create persists a new partner in the caller's company.
func (uc *PartnerUseCase) Create(companyID string, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	now := time.Now()
	p := &entity.Partner{
		CompanyID:       companyID,
		Name:            in.Name,
		CountryCode:     in.CountryCode,
		Street:          in.Street,
		Street2:         in.Street2,
		City:            in.City,
		StateName:       in.StateName,
		Zip:             in.Zip,
		VAT:             in.VAT,
		CompanyRegistry: in.CompanyRegistry,
		Email:           in.Email,
		FiscalPosition:  in.FiscalPosition,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.partnerRepo.Create(p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// Get loads a partner, enforcing tenant ownership.
func (uc *PartnerUseCase) Get(companyID, partnerID string) (*dto.PartnerResponse, error) {
	p, err := uc.load(companyID, partnerID)
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// List returns the company's partners with pagination.
func (uc *PartnerUseCase) List(companyID string, page dto.PageRequest) ([]dto.PartnerResponse, error) {
	page.DefaultPage()
	partners, err := uc.partnerRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, *toPartnerResponse(p))
	}
	return out, nil
}

// Update overwrites partner fields.
func (uc *PartnerUseCase) Update(companyID, partnerID string, in dto.UpdatePartnerRequest) (*dto.PartnerResponse, error) {
	p, err := uc.load(companyID, partnerID)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.CountryCode = in.CountryCode
	p.Street = in.Street
	p.Street2 = in.Street2
	p.City = in.City
	p.StateName = in.StateName
	p.Zip = in.Zip
	p.VAT = in.VAT
	p.CompanyRegistry = in.CompanyRegistry
	p.Email = in.Email
	p.FiscalPosition = in.FiscalPosition
	p.UpdatedAt = time.Now()
	if err := uc.partnerRepo.Update(p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// Validate runs the FBiH partner rules and returns all messages at once, so
// the operator can fix everything in one pass.
func (uc *PartnerUseCase) Validate(companyID, partnerID string, isCompany bool) (*dto.PartnerValidationResponse, error) {
	p, err := uc.load(companyID, partnerID)
	if err != nil {
		return nil, err
	}
	msgs := domfiskal.ValidatePartner(p, isCompany)
	return &dto.PartnerValidationResponse{
		Valid:    len(msgs) == 0,
		Messages: msgs,
	}, nil
}

func (uc *PartnerUseCase) load(companyID, partnerID string) (*entity.Partner, error) {
	p, err := uc.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func toPartnerResponse(p *entity.Partner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Name:            p.Name,
		CountryCode:     p.CountryCode,
		Street:          p.Street,
		Street2:         p.Street2,
		City:            p.City,
		StateName:       p.StateName,
		Zip:             p.Zip,
		VAT:             p.VAT,
		CompanyRegistry: p.CompanyRegistry,
		Email:           p.Email,
		FiscalPosition:  p.FiscalPosition,
	}
}

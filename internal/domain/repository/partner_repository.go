package repository

import "github.com/bringout/fiskal-api/internal/domain/entity"

// PartnerRepository is the persistence port for Partner.
type PartnerRepository interface {
	Create(partner *entity.Partner) error
	GetByID(id string) (*entity.Partner, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Partner, error)
	Update(partner *entity.Partner) error
}

package repository

import "github.com/bringout/fiskal-api/internal/domain/entity"

// CompanyRepository is the persistence port for Company (DIP).
// The implementation lives in infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	Update(company *entity.Company) error
	// UpdateFiskalSettings writes only the fiscal server credentials block.
	UpdateFiskalSettings(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
}

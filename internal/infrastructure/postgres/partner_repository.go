package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implements PartnerRepository over PostgreSQL (pool or tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository builds the adapter. Pass a pool or tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, company_id, name, country_code, street, street2,
	city, state_name, zip, vat, company_registry, email, fiscal_position,
	created_at, updated_at`

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.CountryCode, &p.Street, &p.Street2,
		&p.City, &p.StateName, &p.Zip, &p.VAT, &p.CompanyRegistry, &p.Email,
		&p.FiscalPosition, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persists a new partner.
func (r *PartnerRepo) Create(partner *entity.Partner) error {
	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	query := `
		INSERT INTO partners (id, company_id, name, country_code, street, street2,
			city, state_name, zip, vat, company_registry, email, fiscal_position,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		partner.ID, partner.CompanyID, partner.Name, partner.CountryCode,
		partner.Street, partner.Street2, partner.City, partner.StateName, partner.Zip,
		partner.VAT, partner.CompanyRegistry, partner.Email, partner.FiscalPosition,
		partner.CreatedAt, partner.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// GetByID loads a partner, nil when absent.
func (r *PartnerRepo) GetByID(id string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	p, err := scanPartner(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// ListByCompany lists partners of a company with pagination.
func (r *PartnerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update persists partner fields.
func (r *PartnerRepo) Update(partner *entity.Partner) error {
	query := `
		UPDATE partners
		SET name = $2, country_code = $3, street = $4, street2 = $5, city = $6,
		    state_name = $7, zip = $8, vat = $9, company_registry = $10,
		    email = $11, fiscal_position = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		partner.ID, partner.Name, partner.CountryCode, partner.Street, partner.Street2,
		partner.City, partner.StateName, partner.Zip, partner.VAT, partner.CompanyRegistry,
		partner.Email, partner.FiscalPosition, partner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	return nil
}

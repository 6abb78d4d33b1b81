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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implements CompanyRepository over PostgreSQL (pool or tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository builds the adapter. Pass a pool or tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, vat, partner_id, status,
	fiskal_api_host, fiskal_api_key, fiskal_pin, fiskal_production,
	created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.VAT, &c.PartnerID, &c.Status,
		&c.FiskalAPIHost, &c.FiskalAPIKey, &c.FiskalPIN, &c.FiskalProduction,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persists a new company.
func (r *CompanyRepo) Create(company *entity.Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	query := `
		INSERT INTO companies (id, name, vat, partner_id, status,
			fiskal_api_host, fiskal_api_key, fiskal_pin, fiskal_production,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.VAT, company.PartnerID, company.Status,
		company.FiskalAPIHost, company.FiskalAPIKey, company.FiskalPIN, company.FiskalProduction,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID loads a company, nil when absent.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update persists general company fields; fiscal credentials go through
// UpdateFiskalSettings.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, vat = $3, partner_id = $4, status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.VAT, company.PartnerID,
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// UpdateFiskalSettings writes only the fiscal server credentials block.
func (r *CompanyRepo) UpdateFiskalSettings(company *entity.Company) error {
	query := `
		UPDATE companies
		SET fiskal_api_host = $2, fiskal_api_key = $3, fiskal_pin = $4,
		    fiskal_production = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.FiskalAPIHost, company.FiskalAPIKey, company.FiskalPIN,
		company.FiskalProduction, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company fiskal settings: %w", err)
	}
	return nil
}

// List returns companies ordered by name with pagination.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

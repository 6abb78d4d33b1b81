package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bringout/fiskal-api/internal/domain"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository over PostgreSQL. It holds the
// pool directly because Create runs header and lines in one transaction.
type InvoiceRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository builds the adapter.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

const invoiceColumns = `id, company_id, partner_id, number, move_type, currency,
	invoice_date, payment_term_name, narration, reversed_entry_id, fiskalni_broj,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var reversed, fiskalni *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.PartnerID, &inv.Number, &inv.MoveType,
		&inv.Currency, &inv.InvoiceDate, &inv.PaymentTermName, &inv.Narration,
		&reversed, &fiskalni, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reversed != nil {
		inv.ReversedEntryID = *reversed
	}
	if fiskalni != nil {
		inv.FiskalniBroj = *fiskalni
	}
	return &inv, nil
}

// Create persists the header and its lines atomically.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	ctx := context.Background()
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	headerQuery := `
		INSERT INTO invoices (id, company_id, partner_id, number, move_type, currency,
			invoice_date, payment_term_name, narration, reversed_entry_id, fiskalni_broj,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.Exec(ctx, headerQuery,
		invoice.ID, invoice.CompanyID, invoice.PartnerID, invoice.Number,
		invoice.MoveType, invoice.Currency, invoice.InvoiceDate,
		invoice.PaymentTermName, invoice.Narration,
		nullIfEmpty(invoice.ReversedEntryID), nullIfEmpty(invoice.FiskalniBroj),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (id, invoice_id, name, product_name, product_type,
			display_type, quantity, unit_price, discount, tax_rate, tax_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.InvoiceID = invoice.ID
		_, err = tx.Exec(ctx, lineQuery,
			line.ID, line.InvoiceID, line.Name, line.ProductName, line.ProductType,
			line.DisplayType, line.Quantity, line.UnitPrice, line.Discount,
			line.TaxRate, line.TaxTags,
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID loads the header with its lines; nil when absent.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.pool.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.loadLines(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByNumber resolves an ERP document number within a company.
func (r *InvoiceRepo) GetByNumber(companyID, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 AND number = $2`
	inv, err := scanInvoice(r.pool.QueryRow(context.Background(), query, companyID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	if err := r.loadLines(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByCompany lists invoice headers (without lines) with pagination.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 ORDER BY invoice_date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// SetFiskalniBroj stores the receipt number once. A second write on the
// same invoice returns ErrConflict, keeping fiscalized documents immutable.
func (r *InvoiceRepo) SetFiskalniBroj(id, fiskalniBroj string) error {
	query := `
		UPDATE invoices SET fiskalni_broj = $2, updated_at = now()
		WHERE id = $1 AND fiskalni_broj IS NULL`
	tag, err := r.pool.Exec(context.Background(), query, id, fiskalniBroj)
	if err != nil {
		return fmt.Errorf("set fiskalni broj: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *InvoiceRepo) loadLines(inv *entity.Invoice) error {
	query := `
		SELECT id, invoice_id, name, product_name, product_type, display_type,
			quantity, unit_price, discount, tax_rate, tax_tags
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.pool.Query(context.Background(), query, inv.ID)
	if err != nil {
		return fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.Name, &l.ProductName, &l.ProductType,
			&l.DisplayType, &l.Quantity, &l.UnitPrice, &l.Discount, &l.TaxRate,
			&l.TaxTags,
		)
		if err != nil {
			return fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return rows.Err()
}

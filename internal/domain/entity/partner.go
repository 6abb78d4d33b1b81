package entity

import "time"

// Partner is a business entity on a document: the buyer of an invoice or the
// issuing company itself (seller). Address and identifier fields follow the
// FBiH fiscalization requirements; validation lives in internal/domain/fiskal.
type Partner struct {
	ID        string
	CompanyID string

	Name        string
	CountryCode string // ISO 3166-1 alpha-2; the BA rules only apply here
	Street      string
	Street2     string
	City        string
	StateName   string // kanton
	Zip         string

	VAT             string // PDV broj, 12 digits for BA taxpayers
	CompanyRegistry string // ID broj, 13 digits
	Email           string

	// FiscalPosition carries the ERP fiscal position name. "NE-PDV OBVEZNIK"
	// exempts the partner from the VAT format rule.
	FiscalPosition string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the name prefixed to validation messages.
func (p *Partner) DisplayName() string { return p.Name }

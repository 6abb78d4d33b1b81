package dto

import "time"

// CreateCompanyRequest is the input for creating a company.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	VAT  string `json:"vat" validate:"omitempty,len=12"`
}

// UpdateCompanyRequest is the input for updating a company; nil fields stay
// untouched.
type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	VAT       *string `json:"vat" validate:"omitempty,len=12"`
	PartnerID *string `json:"partner_id" validate:"omitempty,uuid"`
	Status    *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// CompanyResponse is a company without fiscal credentials.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	VAT       string    `json:"vat"`
	PartnerID string    `json:"partner_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest is the body for POST /api/partners.
type CreatePartnerRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	CountryCode     string `json:"country_code" validate:"required,len=2"`
	Street          string `json:"street"`
	Street2         string `json:"street2,omitempty"`
	City            string `json:"city"`
	StateName       string `json:"state_name,omitempty"`
	Zip             string `json:"zip,omitempty"`
	VAT             string `json:"vat,omitempty"`
	CompanyRegistry string `json:"company_registry,omitempty"`
	Email           string `json:"email,omitempty"`
	FiscalPosition  string `json:"fiscal_position,omitempty"`
}

// UpdatePartnerRequest is the body for PUT /api/partners/:id.
type UpdatePartnerRequest = CreatePartnerRequest

// PartnerResponse is a partner in responses.
type PartnerResponse struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	Name            string `json:"name"`
	CountryCode     string `json:"country_code"`
	Street          string `json:"street"`
	Street2         string `json:"street2,omitempty"`
	City            string `json:"city"`
	StateName       string `json:"state_name,omitempty"`
	Zip             string `json:"zip,omitempty"`
	VAT             string `json:"vat,omitempty"`
	CompanyRegistry string `json:"company_registry,omitempty"`
	Email           string `json:"email,omitempty"`
	FiscalPosition  string `json:"fiscal_position,omitempty"`
}

// PartnerValidationResponse is the result of POST /api/partners/:id/validate.
type PartnerValidationResponse struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages,omitempty"`
}

// InvoiceLineRequest is one document line in CreateInvoiceRequest.
type InvoiceLineRequest struct {
	Name        string          `json:"name"`
	ProductName string          `json:"product_name,omitempty"`
	ProductType string          `json:"product_type,omitempty" validate:"omitempty,oneof=service product"`
	DisplayType string          `json:"display_type,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxTags     []string        `json:"tax_tags,omitempty"`
}

// CreateInvoiceRequest is the body for POST /api/invoices. It registers a
// posted ERP document for fiscalization; it does not drive the ERP lifecycle.
type CreateInvoiceRequest struct {
	PartnerID       string               `json:"partner_id" validate:"required,uuid"`
	Number          string               `json:"number" validate:"required,max=16"`
	MoveType        string               `json:"move_type" validate:"required,oneof=out_invoice out_refund"`
	Currency        string               `json:"currency,omitempty"`
	InvoiceDate     time.Time            `json:"invoice_date"`
	PaymentTermName string               `json:"payment_term_name,omitempty"`
	Narration       string               `json:"narration,omitempty"`
	ReversedEntryID string               `json:"reversed_entry_id,omitempty"`
	Lines           []InvoiceLineRequest `json:"lines" validate:"required,min=1"`
}

// InvoiceLineResponse is one line in InvoiceResponse.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ProductName string          `json:"product_name,omitempty"`
	ProductType string          `json:"product_type,omitempty"`
	DisplayType string          `json:"display_type,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxTags     []string        `json:"tax_tags,omitempty"`
}

// InvoiceResponse is an invoice with lines for GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	CompanyID       string                `json:"company_id"`
	PartnerID       string                `json:"partner_id"`
	Number          string                `json:"number"`
	MoveType        string                `json:"move_type"`
	Currency        string                `json:"currency,omitempty"`
	InvoiceDate     string                `json:"invoice_date"`
	PaymentTermName string                `json:"payment_term_name,omitempty"`
	Narration       string                `json:"narration,omitempty"`
	ReversedEntryID string                `json:"reversed_entry_id,omitempty"`
	FiskalniBroj    string                `json:"fiskalni_broj,omitempty"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
}

// FiskalizacijaResponse is the result of POST /api/invoices/:id/fiskaliziraj.
type FiskalizacijaResponse struct {
	InvoiceID    string `json:"invoice_id"`
	FiskalniBroj string `json:"fiskalni_broj"`
	Attachment   string `json:"attachment"`
}

// CancelResponse is the result of POST /api/invoices/:id/cancel. Fiscalized
// documents are never reset; Allowed is false with the policy message.
type CancelResponse struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// FiskalSettingsRequest is the body for PUT /api/settings/fiskal (admin only).
type FiskalSettingsRequest struct {
	FiskalAPIHost    string `json:"fiskal_api_host" validate:"required,url"`
	FiskalAPIKey     string `json:"fiskal_api_key" validate:"required"`
	FiskalPIN        string `json:"fiskal_pin,omitempty"`
	FiskalProduction bool   `json:"fiskal_production"`
}

// FiskalSettingsResponse echoes the fiscal settings; the API key is masked.
type FiskalSettingsResponse struct {
	FiskalAPIHost    string `json:"fiskal_api_host"`
	FiskalAPIKey     string `json:"fiskal_api_key"`
	FiskalPIN        string `json:"fiskal_pin,omitempty"`
	FiskalProduction bool   `json:"fiskal_production"`
}

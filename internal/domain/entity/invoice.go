package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Move types of interest for fiscalization.
const (
	MoveTypeOutInvoice = "out_invoice"
	MoveTypeOutRefund  = "out_refund" // storno
)

// Display types of invoice lines, mirroring the source ERP.
const (
	DisplayTypeProduct  = "product"
	DisplayTypeNote     = "line_note"
	DisplayTypeSection  = "line_section"
	DisplayTypeRounding = "rounding"
)

// Product types as reported to the fiscal server.
const (
	ProductTypeService = "service"
	ProductTypeProduct = "product"
	ProductTypeMixed   = "mixed"
)

// Invoice is a posted ERP sale document registered for fiscalization. The
// bridge only reads it and writes back the fiscal receipt number plus the
// response attachment; the document lifecycle stays in the ERP.
type Invoice struct {
	ID        string
	CompanyID string
	PartnerID string // buyer

	Number          string // ERP document number; max 16 znakova
	MoveType        string // out_invoice | out_refund
	Currency        string // BAM
	InvoiceDate     time.Time
	PaymentTermName string
	Narration       string

	// ReversedEntryID references the fiscalized original when this document
	// is a refund (storno).
	ReversedEntryID string

	// FiskalniBroj is the receipt number returned by the fiscal server.
	// Set once on successful submission, read-only afterwards.
	FiskalniBroj string

	Lines []InvoiceLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSaleDocument reports whether the move type is subject to fiscalization.
func (i *Invoice) IsSaleDocument() bool {
	return i.MoveType == MoveTypeOutInvoice || i.MoveType == MoveTypeOutRefund
}

// ReceiptType maps the move type to the fiscal receipt type (F or R).
// Returns "" for non-sale documents.
func (i *Invoice) ReceiptType() string {
	switch i.MoveType {
	case MoveTypeOutInvoice:
		return "F"
	case MoveTypeOutRefund:
		return "R"
	}
	return ""
}

// InvoiceLine is one document line. Amount fields use decimals; percentages
// (Discount, TaxRate) are expressed as 0-100 values, e.g. PDV 17.
type InvoiceLine struct {
	ID        string
	InvoiceID string

	Name        string
	ProductName string
	ProductType string // service | product
	DisplayType string // "" is treated as product

	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // popust u %
	TaxRate   decimal.Decimal // nominalna stopa PDV u %

	TaxTags []string // l10n_bs tag codes: A, E, K, E_base
}

// IsProduct reports whether the line carries amounts (not a note, section or
// rounding line).
func (l *InvoiceLine) IsProduct() bool {
	return l.DisplayType == "" || l.DisplayType == DisplayTypeProduct
}

// BaseAmount is quantity * unit price less the percentage discount.
func (l *InvoiceLine) BaseAmount() decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPrice)
	if l.Discount.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(100).Sub(l.Discount).Div(decimal.NewFromInt(100))
	return gross.Mul(factor)
}

// TaxAmount is the PDV computed on the line base at the nominal rate.
func (l *InvoiceLine) TaxAmount() decimal.Decimal {
	return l.BaseAmount().Mul(l.TaxRate).Div(decimal.NewFromInt(100))
}

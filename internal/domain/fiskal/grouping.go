package fiskal

import (
	"github.com/shopspring/decimal"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	pkgfiskal "github.com/bringout/fiskal-api/pkg/fiskal"
)

// LineDetail is one contributing invoice line inside a tax group, kept for
// audit alongside the aggregate amounts.
type LineDetail struct {
	Name            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	ProductType     string
}

// TaxDetail is one grouped tax record: a (PDV code, rate, product) slice of
// the invoice's taxable lines with summed base and tax amounts. The payload
// builder re-aggregates these strictly by PDV code.
type TaxDetail struct {
	MoveType      string
	PaymentMethod string

	// Refund reference to the fiscalized original, only for storno documents.
	RefundRefNumber string
	RefundRefDate   string // YYYY-MM-DD, "" when unknown

	PDVCode    string
	TaxRate    decimal.Decimal
	BaseAmount decimal.Decimal
	TaxAmount  decimal.Decimal

	Lines []LineDetail

	// Propagated verbatim when a single line contributes to the group;
	// otherwise quantity 1, unit price = group base, discount 0, type service.
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	ProductType     string
}

type groupKey struct {
	pdvCode string
	rate    string
	product string
}

// GroupTaxDetails buckets the invoice's amount-carrying lines into tax
// groups. reversed is the fiscalized original for refunds; nil otherwise.
// Note, section and rounding lines are excluded. Output order follows the
// first appearance of each group in the line sequence.
func GroupTaxDetails(inv *entity.Invoice, reversed *entity.Invoice) []TaxDetail {
	method := pkgfiskal.PaymentMethod(inv.PaymentTermName, inv.Narration)

	refundNumber, refundDate := "", ""
	if inv.MoveType == entity.MoveTypeOutRefund && reversed != nil {
		refundNumber = reversed.FiskalniBroj
		if !reversed.InvoiceDate.IsZero() {
			refundDate = reversed.InvoiceDate.Format("2006-01-02")
		}
	}

	groups := make(map[groupKey]*TaxDetail)
	var order []groupKey

	for i := range inv.Lines {
		line := &inv.Lines[i]
		if !line.IsProduct() {
			continue
		}

		key := groupKey{
			pdvCode: pkgfiskal.PDVCodeForTags(line.TaxTags),
			rate:    line.TaxRate.String(),
			product: line.ProductName,
		}
		detail, ok := groups[key]
		if !ok {
			detail = &TaxDetail{
				MoveType:        inv.MoveType,
				PaymentMethod:   method,
				RefundRefNumber: refundNumber,
				RefundRefDate:   refundDate,
				PDVCode:         key.pdvCode,
				TaxRate:         line.TaxRate,
			}
			groups[key] = detail
			order = append(order, key)
		}

		detail.BaseAmount = detail.BaseAmount.Add(line.BaseAmount())
		detail.TaxAmount = detail.TaxAmount.Add(line.TaxAmount())
		detail.Lines = append(detail.Lines, LineDetail{
			Name:            line.Name,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.Discount,
			ProductType:     line.ProductType,
		})
	}

	details := make([]TaxDetail, 0, len(order))
	for _, key := range order {
		d := groups[key]
		if len(d.Lines) == 1 {
			d.Quantity = d.Lines[0].Quantity
			d.UnitPrice = d.Lines[0].UnitPrice
			d.DiscountPercent = d.Lines[0].DiscountPercent
			d.ProductType = d.Lines[0].ProductType
		} else {
			d.Quantity = decimal.NewFromInt(1)
			d.UnitPrice = d.BaseAmount
			d.DiscountPercent = decimal.Zero
			d.ProductType = entity.ProductTypeService
		}
		details = append(details, *d)
	}
	return details
}

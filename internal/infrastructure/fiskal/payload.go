// Package fiskal implements the outbound side of FBiH fiscalization: the
// invoiceRequest payload builder and the HTTP client for the fiscal server.
package fiskal

import (
	"github.com/shopspring/decimal"

	domfiskal "github.com/bringout/fiskal-api/internal/domain/fiskal"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	pkgfiskal "github.com/bringout/fiskal-api/pkg/fiskal"
)

// Invoice types accepted by the fiscal server. Only Normal is issued; Copy
// reprints go through the duplikat endpoint instead.
const (
	InvoiceTypeNormal = "Normal"
	InvoiceTypeCopy   = "Copy"
)

// Transaction types.
const (
	TransactionTypeSale   = "Sale"
	TransactionTypeRefund = "Refund"
)

// DefaultCashier is the fixed operator code reported on every document.
const DefaultCashier = "000001"

// Customer is the buyer block of the payload.
type Customer struct {
	IDBroj string `json:"idBroj"`
	Naziv  string `json:"naziv"`
	Adresa string `json:"adresa"`
	PTT    string `json:"ptt"`
	Grad   string `json:"grad"`
}

// Payment is one payment entry. The whole document total goes into a single
// entry with the resolved payment type.
type Payment struct {
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"paymentType"` // Cash, Card, WireTransfer, Other
}

// Item is one payload item, aggregated per PDV code.
type Item struct {
	Name        string   `json:"name"`
	Labels      []string `json:"labels"` // PDV code, for traceability
	BaseAmount  float64  `json:"baseAmount"`
	TaxAmount   float64  `json:"taxAmount"`
	UnitPrice   float64  `json:"unitPrice"`
	Discount    float64  `json:"discount"`
	Quantity    float64  `json:"quantity"`
	TotalAmount float64  `json:"totalAmount"`
}

// InvoiceRequest is the document body as expected by the fiscal server.
type InvoiceRequest struct {
	ReferentDocumentNumber string    `json:"referentDocumentNumber"`
	ReferentDocumentDT     string    `json:"referentDocumentDT"`
	ErpDocument            string    `json:"erpDocument"`
	InvoiceType            string    `json:"invoiceType"`     // Normal, Copy
	TransactionType        string    `json:"transactionType"` // Sale, Refund
	Payment                []Payment `json:"payment"`
	Items                  []Item    `json:"items"`
	Cashier                string    `json:"cashier"`
	Customer               Customer  `json:"customer"`
}

// InvoiceRequestEnvelope wraps the request in the server's outer object.
type InvoiceRequestEnvelope struct {
	InvoiceRequest InvoiceRequest `json:"invoiceRequest"`
}

// aggregatedItem accumulates base and tax per PDV code across tax details.
type aggregatedItem struct {
	pdvCode     string
	baseAmount  decimal.Decimal
	taxAmount   decimal.Decimal
	taxRate     decimal.Decimal
	quantity    decimal.Decimal
	productType string
	merged      bool
}

// BuildInvoiceRequest transforms a grouped invoice into the fiscal server
// payload. reversed is the fiscalized original for refunds, nil otherwise.
//
// When the invoice mixes payment methods across groups, the last group's
// method wins; see DESIGN.md for the rationale of keeping that behavior.
func BuildInvoiceRequest(inv *entity.Invoice, reversed *entity.Invoice, buyer *entity.Partner) *InvoiceRequestEnvelope {
	details := domfiskal.GroupTaxDetails(inv, reversed)

	transactionType := TransactionTypeSale
	refundNumber, refundDate := "", ""
	paymentMethod := pkgfiskal.PaymentWireTransfer

	aggregated := make(map[string]*aggregatedItem)
	var order []string

	for i := range details {
		d := &details[i]
		paymentMethod = d.PaymentMethod

		agg, ok := aggregated[d.PDVCode]
		if !ok {
			if d.MoveType == entity.MoveTypeOutRefund {
				transactionType = TransactionTypeRefund
				refundNumber = d.RefundRefNumber
				refundDate = d.RefundRefDate
			}
			aggregated[d.PDVCode] = &aggregatedItem{
				pdvCode:     d.PDVCode,
				baseAmount:  d.BaseAmount,
				taxAmount:   d.TaxAmount,
				taxRate:     d.TaxRate,
				quantity:    d.Quantity,
				productType: d.ProductType,
			}
			order = append(order, d.PDVCode)
			continue
		}

		agg.baseAmount = agg.baseAmount.Add(d.BaseAmount)
		agg.taxAmount = agg.taxAmount.Add(d.TaxAmount)
		if agg.productType != d.ProductType {
			agg.productType = entity.ProductTypeMixed
		}
		// Once several groups fold into the same code the per-group quantity
		// loses meaning; report 1 like a mixed service item.
		agg.quantity = decimal.NewFromInt(1)
		agg.merged = true
	}

	items := make([]Item, 0, len(order))
	total := decimal.Zero
	for _, code := range order {
		agg := aggregated[code]
		gross := agg.baseAmount.Add(agg.taxAmount)
		items = append(items, Item{
			Name:        "St." + inv.Number,
			Labels:      []string{agg.pdvCode},
			BaseAmount:  pkgfiskal.RoundValue(agg.baseAmount).InexactFloat64(),
			TaxAmount:   pkgfiskal.RoundValue(agg.taxAmount).InexactFloat64(),
			UnitPrice:   pkgfiskal.RoundValue(gross).InexactFloat64(),
			Discount:    0,
			Quantity:    agg.quantity.InexactFloat64(),
			TotalAmount: pkgfiskal.RoundValue(gross).InexactFloat64(),
		})
		total = total.Add(gross)
	}

	return &InvoiceRequestEnvelope{
		InvoiceRequest: InvoiceRequest{
			ReferentDocumentNumber: refundNumber,
			ReferentDocumentDT:     refundDate,
			ErpDocument:            inv.Number,
			InvoiceType:            InvoiceTypeNormal,
			TransactionType:        transactionType,
			Payment: []Payment{{
				Amount:      pkgfiskal.RoundValue(total).InexactFloat64(),
				PaymentType: paymentMethod,
			}},
			Items:   items,
			Cashier: DefaultCashier,
			Customer: Customer{
				IDBroj: buyer.CompanyRegistry,
				Naziv:  buyer.Name,
				Adresa: buyer.Street,
				PTT:    buyer.Zip,
				Grad:   buyer.City,
			},
		},
	}
}

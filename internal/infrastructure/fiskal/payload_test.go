package fiskal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	infrafiskal "github.com/bringout/fiskal-api/internal/infrastructure/fiskal"
)

func buyer() *entity.Partner {
	return &entity.Partner{
		Name:            "Kupac d.o.o.",
		CountryCode:     "BA",
		Street:          "Zmaja od Bosne 12",
		City:            "Sarajevo",
		StateName:       "Kanton Sarajevo",
		Zip:             "71000",
		VAT:             "200123456789",
		CompanyRegistry: "4200123456789",
	}
}

func taggedLine(product string, qty, price, rate float64, tags ...string) entity.InvoiceLine {
	return entity.InvoiceLine{
		Name:        product,
		ProductName: product,
		ProductType: entity.ProductTypeProduct,
		Quantity:    decimal.NewFromFloat(qty),
		UnitPrice:   decimal.NewFromFloat(price),
		TaxRate:     decimal.NewFromFloat(rate),
		TaxTags:     tags,
	}
}

// End-to-end property: one product line tagged E, base 100, PDV 17, payment
// term GOTOVINA.
func TestBuildInvoiceRequest_SaleCash(t *testing.T) {
	inv := &entity.Invoice{
		Number:          "INV/2025/00001",
		MoveType:        entity.MoveTypeOutInvoice,
		Currency:        "BAM",
		PaymentTermName: "GOTOVINA",
		Lines:           []entity.InvoiceLine{taggedLine("Usluga", 1, 100, 17, "E")},
	}

	env := infrafiskal.BuildInvoiceRequest(inv, nil, buyer())
	req := env.InvoiceRequest

	assert.Equal(t, "INV/2025/00001", req.ErpDocument)
	assert.Equal(t, infrafiskal.InvoiceTypeNormal, req.InvoiceType)
	assert.Equal(t, infrafiskal.TransactionTypeSale, req.TransactionType)
	assert.Equal(t, "", req.ReferentDocumentNumber)
	assert.Equal(t, infrafiskal.DefaultCashier, req.Cashier)

	require.Len(t, req.Payment, 1)
	assert.Equal(t, "Cash", req.Payment[0].PaymentType)
	assert.InDelta(t, 117.0, req.Payment[0].Amount, 1e-9)

	require.Len(t, req.Items, 1)
	item := req.Items[0]
	assert.Equal(t, "St.INV/2025/00001", item.Name)
	assert.Equal(t, []string{"E"}, item.Labels)
	assert.InDelta(t, 100.0, item.BaseAmount, 1e-9)
	assert.InDelta(t, 17.0, item.TaxAmount, 1e-9)
	assert.InDelta(t, 117.0, item.UnitPrice, 1e-9)
	assert.InDelta(t, 117.0, item.TotalAmount, 1e-9)
	assert.Zero(t, item.Discount)

	assert.Equal(t, "4200123456789", req.Customer.IDBroj)
	assert.Equal(t, "Kupac d.o.o.", req.Customer.Naziv)
	assert.Equal(t, "71000", req.Customer.PTT)
	assert.Equal(t, "Sarajevo", req.Customer.Grad)
}

// Two line items sharing PDV code E with bases 100 and 50 and taxes 17 and
// 8.5 aggregate to a single item with base 150, tax 25.5.
func TestBuildInvoiceRequest_AggregatesByPDVCode(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/00002",
		MoveType: entity.MoveTypeOutInvoice,
		Lines: []entity.InvoiceLine{
			taggedLine("Usluga A", 1, 100, 17, "E"),
			taggedLine("Usluga B", 1, 50, 17, "E"),
		},
	}

	env := infrafiskal.BuildInvoiceRequest(inv, nil, buyer())
	req := env.InvoiceRequest

	require.Len(t, req.Items, 1)
	assert.InDelta(t, 150.0, req.Items[0].BaseAmount, 1e-9)
	assert.InDelta(t, 25.5, req.Items[0].TaxAmount, 1e-9)
	assert.InDelta(t, 175.5, req.Items[0].TotalAmount, 1e-9)
	assert.InDelta(t, 175.5, req.Payment[0].Amount, 1e-9)
}

func TestBuildInvoiceRequest_OneItemPerPDVCode(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/00003",
		MoveType: entity.MoveTypeOutInvoice,
		Lines: []entity.InvoiceLine{
			taggedLine("Domaća usluga", 1, 100, 17, "E"),
			taggedLine("Izvoz", 1, 200, 0, "K"),
		},
	}

	env := infrafiskal.BuildInvoiceRequest(inv, nil, buyer())
	req := env.InvoiceRequest

	require.Len(t, req.Items, 2)
	assert.Equal(t, []string{"E"}, req.Items[0].Labels)
	assert.Equal(t, []string{"K"}, req.Items[1].Labels)
	assert.InDelta(t, 317.0, req.Payment[0].Amount, 1e-9)
}

func TestBuildInvoiceRequest_RefundCarriesReferentDocument(t *testing.T) {
	reversed := &entity.Invoice{
		Number:       "INV/2025/00001",
		FiskalniBroj: "991",
		InvoiceDate:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	inv := &entity.Invoice{
		Number:   "RINV/2025/00001",
		MoveType: entity.MoveTypeOutRefund,
		Lines:    []entity.InvoiceLine{taggedLine("Usluga", 1, 100, 17, "E")},
	}

	env := infrafiskal.BuildInvoiceRequest(inv, reversed, buyer())
	req := env.InvoiceRequest

	assert.Equal(t, infrafiskal.TransactionTypeRefund, req.TransactionType)
	assert.Equal(t, "991", req.ReferentDocumentNumber)
	assert.Equal(t, "2025-02-01", req.ReferentDocumentDT)
}

// Narration Card phrase wins over a cash payment term, all the way into the
// payload.
func TestBuildInvoiceRequest_NarrationCardOverride(t *testing.T) {
	inv := &entity.Invoice{
		Number:          "INV/2025/00004",
		MoveType:        entity.MoveTypeOutInvoice,
		PaymentTermName: "GOTOVINA",
		Narration:       "PLAĆANJE KARTICOM",
		Lines:           []entity.InvoiceLine{taggedLine("Usluga", 1, 100, 17, "E")},
	}
	env := infrafiskal.BuildInvoiceRequest(inv, nil, buyer())
	assert.Equal(t, "Card", env.InvoiceRequest.Payment[0].PaymentType)
}

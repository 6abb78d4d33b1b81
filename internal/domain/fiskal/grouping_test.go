package fiskal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/fiskal"
	pkgfiskal "github.com/bringout/fiskal-api/pkg/fiskal"
)

func line(product string, qty, price, rate float64, tags ...string) entity.InvoiceLine {
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

func TestGroupTaxDetails_SingleLinePropagatesVerbatim(t *testing.T) {
	l := line("Monitor", 3, 250, 17, "E")
	l.Discount = decimal.NewFromInt(10)
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{l},
	}

	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 1)

	d := details[0]
	assert.Equal(t, pkgfiskal.PDVCodeE, d.PDVCode)
	assert.Equal(t, pkgfiskal.PaymentWireTransfer, d.PaymentMethod)
	assert.True(t, d.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, d.UnitPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, d.DiscountPercent.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.ProductTypeProduct, d.ProductType)
	// 3 * 250 * 0.9 = 675; PDV 17% = 114.75
	assert.True(t, d.BaseAmount.Equal(decimal.NewFromInt(675)))
	assert.True(t, d.TaxAmount.Equal(decimal.RequireFromString("114.75")))
}

func TestGroupTaxDetails_MultiLineGroupDefaults(t *testing.T) {
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutInvoice,
		Lines: []entity.InvoiceLine{
			line("Roba", 2, 30, 17, "E"),
			line("Roba", 1, 40, 17, "E"),
		},
	}

	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 1)

	d := details[0]
	require.Len(t, d.Lines, 2)
	assert.True(t, d.Quantity.Equal(decimal.NewFromInt(1)), "multi-line group defaults to quantity 1")
	assert.True(t, d.UnitPrice.Equal(d.BaseAmount), "multi-line group unit price falls back to group base")
	assert.True(t, d.DiscountPercent.IsZero())
	assert.Equal(t, entity.ProductTypeService, d.ProductType)
	assert.True(t, d.BaseAmount.Equal(decimal.NewFromInt(100)))
}

func TestGroupTaxDetails_SeparatesPDVCodes(t *testing.T) {
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutInvoice,
		Lines: []entity.InvoiceLine{
			line("Usluga", 1, 100, 17, "E"),
			line("Izvoz", 1, 50, 0, "K"),
		},
	}
	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 2)
	assert.Equal(t, pkgfiskal.PDVCodeE, details[0].PDVCode)
	assert.Equal(t, pkgfiskal.PDVCodeK, details[1].PDVCode)
}

func TestGroupTaxDetails_RoundingLinesExcluded(t *testing.T) {
	rounding := entity.InvoiceLine{
		Name:        "Zaokruženje",
		DisplayType: entity.DisplayTypeRounding,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.RequireFromString("-0.02"),
	}
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{line("Usluga", 1, 100, 17, "E"), rounding},
	}
	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 1)
	assert.True(t, details[0].BaseAmount.Equal(decimal.NewFromInt(100)))
}

// Narration match has priority over the payment-term match.
func TestGroupTaxDetails_NarrationOverridesPaymentTerm(t *testing.T) {
	inv := &entity.Invoice{
		MoveType:        entity.MoveTypeOutInvoice,
		PaymentTermName: "GOTOVINA",
		Narration:       "Ibid. PLAĆANJE KARTICOM na POS terminalu.",
		Lines:           []entity.InvoiceLine{line("Usluga", 1, 100, 17, "E")},
	}
	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 1)
	assert.Equal(t, pkgfiskal.PaymentCard, details[0].PaymentMethod)
}

func TestGroupTaxDetails_PaymentTermCash(t *testing.T) {
	inv := &entity.Invoice{
		MoveType:        entity.MoveTypeOutInvoice,
		PaymentTermName: "Gotovina",
		Lines:           []entity.InvoiceLine{line("Usluga", 1, 100, 17, "E")},
	}
	details := fiskal.GroupTaxDetails(inv, nil)
	require.Len(t, details, 1)
	assert.Equal(t, pkgfiskal.PaymentCash, details[0].PaymentMethod)
}

func TestGroupTaxDetails_RefundCarriesReference(t *testing.T) {
	reversed := &entity.Invoice{
		Number:       "INV/2025/00001",
		FiskalniBroj: "554/ABC",
		InvoiceDate:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutRefund,
		Lines:    []entity.InvoiceLine{line("Usluga", 1, 100, 17, "E")},
	}
	details := fiskal.GroupTaxDetails(inv, reversed)
	require.Len(t, details, 1)
	assert.Equal(t, "554/ABC", details[0].RefundRefNumber)
	assert.Equal(t, "2025-03-14", details[0].RefundRefDate)
	assert.Equal(t, entity.MoveTypeOutRefund, details[0].MoveType)
}

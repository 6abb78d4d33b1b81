package fiskal_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	"github.com/bringout/fiskal-api/internal/domain/fiskal"
)

func validBAPartner() *entity.Partner {
	return &entity.Partner{
		Name:            "Kupac d.o.o.",
		CountryCode:     "BA",
		Street:          "Zmaja od Bosne 12",
		City:            "Sarajevo",
		StateName:       "Kanton Sarajevo",
		Zip:             "71000",
		VAT:             "200123456789",
		CompanyRegistry: "4200123456789",
		Email:           "racun@kupac.ba",
	}
}

func TestValidatePartner_ValidBAPartner(t *testing.T) {
	msgs := fiskal.ValidatePartner(validBAPartner(), false)
	assert.Empty(t, msgs)
}

// ID broj: everything except exactly 13 digits must produce the "ID broj"
// message; exactly 13 digits never does.
func TestValidatePartner_CompanyRegistry(t *testing.T) {
	cases := []struct {
		registry string
		wantMsg  bool
	}{
		{"4200123456789", false},
		{"420012345678", true},    // 12 digits
		{"42001234567890", true},  // 14 digits
		{"42001234567AB", true},   // non-digits
		{"", true},
	}
	for _, tc := range cases {
		p := validBAPartner()
		p.CompanyRegistry = tc.registry
		msgs := fiskal.ValidatePartner(p, false)
		if tc.wantMsg {
			require.NotEmpty(t, msgs, "registry %q", tc.registry)
			assert.Contains(t, strings.Join(msgs, "\n"), "ID broj", "registry %q", tc.registry)
		} else {
			assert.Empty(t, msgs, "registry %q", tc.registry)
		}
	}
}

func TestValidatePartner_VATRule(t *testing.T) {
	p := validBAPartner()
	p.VAT = "12345"
	msgs := fiskal.ValidatePartner(p, false)
	assert.Contains(t, strings.Join(msgs, "\n"), "PDV broj")
}

// Partner with fiscal position "NE-PDV OBVEZNIK" is exempt from the VAT
// format rule, regardless of case.
func TestValidatePartner_NonPDVObveznikSkipsVAT(t *testing.T) {
	p := validBAPartner()
	p.VAT = ""
	p.FiscalPosition = "Ne-PDV obveznik"
	msgs := fiskal.ValidatePartner(p, false)
	assert.Empty(t, msgs)
}

// Identifier rules only bind BA partners; address rules bind everyone.
func TestValidatePartner_ForeignPartner(t *testing.T) {
	p := &entity.Partner{
		Name:        "Ausland GmbH",
		CountryCode: "DE",
		Street:      "Hauptstrasse 1",
		City:        "Berlin",
	}
	assert.Empty(t, fiskal.ValidatePartner(p, false))

	p.City = "B"
	msgs := fiskal.ValidatePartner(p, false)
	require.NotEmpty(t, msgs)
	assert.Contains(t, strings.Join(msgs, "\n"), "Grad")
}

func TestValidatePartner_AddressAndEmailRules(t *testing.T) {
	p := validBAPartner()
	p.Street = "ab" // too short
	p.Street2 = "x"
	p.StateName = "KS"
	p.Email = "a@b.c" // 5 chars, below minimum
	msgs := fiskal.ValidatePartner(p, false)

	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "Ulica min 3")
	assert.Contains(t, joined, "Ulica2")
	assert.Contains(t, joined, "Kanton")
	assert.Contains(t, joined, "email adresa")
	// Display name is prefixed when any rule fails.
	assert.Equal(t, "Kupac d.o.o.", msgs[0])
}

func TestValidatePartner_EmailPattern(t *testing.T) {
	p := validBAPartner()
	p.Email = "nije email"
	msgs := fiskal.ValidatePartner(p, false)
	assert.Contains(t, strings.Join(msgs, "\n"), "email adresa")
}

// ── CheckInvoice ──────────────────────────────────────────────────────────────

func productLine(tags ...string) entity.InvoiceLine {
	return entity.InvoiceLine{
		Name:        "Usluga montaže",
		ProductName: "Montaža",
		ProductType: entity.ProductTypeService,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(100),
		TaxRate:     decimal.NewFromInt(17),
		TaxTags:     tags,
	}
}

func TestCheckInvoice_Valid(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/00001",
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{productLine("E")},
	}
	msgs := fiskal.CheckInvoice(inv, validBAPartner(), validBAPartner())
	assert.Empty(t, msgs)
}

func TestCheckInvoice_NumberTooLong(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/000000001", // 18 znakova
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{productLine("E")},
	}
	msgs := fiskal.CheckInvoice(inv, validBAPartner(), validBAPartner())
	assert.Contains(t, strings.Join(msgs, "\n"), "16 znakova")
}

func TestCheckInvoice_NegativeDiscountAndUnmappedTag(t *testing.T) {
	bad := productLine("XYZ")
	bad.Discount = decimal.NewFromInt(-5)
	inv := &entity.Invoice{
		Number:   "INV/2025/00002",
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{bad},
	}
	msgs := fiskal.CheckInvoice(inv, validBAPartner(), validBAPartner())
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "Negativni popust")
	assert.Contains(t, joined, "odgovarajuću stopu PDV")
}

// Note, section and rounding lines carry no taxes and are skipped by the gate.
func TestCheckInvoice_SkipsNonProductLines(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/00003",
		MoveType: entity.MoveTypeOutInvoice,
		Lines: []entity.InvoiceLine{
			{Name: "Napomena", DisplayType: entity.DisplayTypeNote},
			{Name: "Zaokruženje", DisplayType: entity.DisplayTypeRounding},
			productLine("E"),
		},
	}
	msgs := fiskal.CheckInvoice(inv, validBAPartner(), validBAPartner())
	assert.Empty(t, msgs)
}

// E_base counts as mapped (non-taxable base) for the line-level check.
func TestCheckInvoice_EBaseTagIsMapped(t *testing.T) {
	inv := &entity.Invoice{
		Number:   "INV/2025/00004",
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{productLine("E_base")},
	}
	msgs := fiskal.CheckInvoice(inv, validBAPartner(), validBAPartner())
	assert.Empty(t, msgs)
}

// ── Applicable ────────────────────────────────────────────────────────────────

func TestApplicable(t *testing.T) {
	seller := validBAPartner()
	inv := &entity.Invoice{
		MoveType: entity.MoveTypeOutInvoice,
		Lines:    []entity.InvoiceLine{productLine("E")},
	}
	assert.True(t, fiskal.Applicable(inv, seller))

	// E_base alone does not make the document fiskalizable.
	inv.Lines = []entity.InvoiceLine{productLine("E_base")}
	assert.False(t, fiskal.Applicable(inv, seller))

	inv.Lines = []entity.InvoiceLine{productLine("E")}
	foreign := validBAPartner()
	foreign.CountryCode = "HR"
	assert.False(t, fiskal.Applicable(inv, foreign))

	inv.MoveType = "in_invoice"
	assert.False(t, fiskal.Applicable(inv, seller))
}

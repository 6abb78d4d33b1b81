// Package pdf renders the receipt copy (kopija fiskalnog računa) of a
// fiscalized invoice.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Naziv preduzeća + PDV broj  │  Broj računa + Datum │
//	│  ───────────────────────────────────────────────────────── │
//	│  KUPAC: naziv + ID broj + adresa                            │
//	│  ───────────────────────────────────────────────────────── │
//	│  TABLE: Kol. | Naziv | Cijena | PDV% | Iznos                │
//	│  ───────────────────────────────────────────────────────── │
//	│  TOTALS: Osnovica / PDV / UKUPNO                            │
//	│  ───────────────────────────────────────────────────────── │
//	│  FOOTER: Fiskalni broj + KOPIJA legend                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/domain/entity"
	pkgfiskal "github.com/bringout/fiskal-api/pkg/fiskal"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implements billing.ReceiptPDFGenerator using Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReceiptPDF renders the receipt copy and returns its bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	buyer *entity.Partner,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kopija fiskalnog računa", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buyerRow(buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(invoice.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: company name + PDV broj (left), receipt number + date (right).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	datum := invoice.InvoiceDate.Format("02.01.2006")
	title := "FISKALNI RAČUN"
	if invoice.MoveType == entity.MoveTypeOutRefund {
		title = "FISKALNI RAČUN — POVRAT"
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("PDV broj: "+company.VAT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Datum: "+datum, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// buyerRow: buyer name, ID broj and address.
func buyerRow(buyer *entity.Partner) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("KUPAC", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(buyer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("ID broj: %s   |   %s, %s %s",
				nonEmpty(buyer.CompanyRegistry, "—"),
				nonEmpty(buyer.Street, "—"),
				nonEmpty(buyer.Zip, ""),
				nonEmpty(buyer.City, ""),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Kol.", 1, align.Center),
		h("Naziv artikla/usluge", 5, align.Left),
		h("Cijena", 2, align.Right),
		h("PDV%", 1, align.Center),
		h("Iznos", 3, align.Right),
	)
}

// tableLineRows: one row per amount-bearing line; notes and sections are
// skipped.
func tableLineRows(lines []entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		if !l.IsProduct() {
			continue
		}
		name := l.ProductName
		if name == "" {
			name = l.Name
		}
		total := pkgfiskal.RoundValue(l.BaseAmount().Add(l.TaxAmount()))
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: base, PDV and grand total, right aligned.
func totalsRow(invoice *entity.Invoice) core.Row {
	base := decimal.Zero
	tax := decimal.Zero
	for i := range invoice.Lines {
		l := &invoice.Lines[i]
		if !l.IsProduct() {
			continue
		}
		base = base.Add(l.BaseAmount())
		tax = tax.Add(l.TaxAmount())
	}
	base = pkgfiskal.RoundValue(base)
	tax = pkgfiskal.RoundValue(tax)
	grand := pkgfiskal.RoundValue(base.Add(tax))

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Osnovica:"),
			label("PDV:"),
			grandLabel("UKUPNO:"),
		),
		col.New(3).Add(
			value(base.StringFixed(2)+" KM"),
			value(tax.StringFixed(2)+" KM"),
			grandValue(grand.StringFixed(2)+" KM"),
		),
		col.New(3),
	)
}

// footerRows: fiscal receipt number + copy legend.
func footerRows(invoice *entity.Invoice) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("FISKALNI PODACI", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("Fiskalni broj računa: "+invoice.FiskalniBroj, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1,
			}),
		)),
		row.New(10).Add(col.New(12).Add(
			text.New("KOPIJA — nije fiskalni dokument", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center,
				Color: colorGray, Top: 2,
			}),
		)),
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

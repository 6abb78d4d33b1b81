// Package fiskal implements the FBiH fiscalization domain rules: partner and
// document validation ahead of submission, and the tax-line grouping engine
// that buckets invoice lines by PDV code. Pure functions over entities; no
// persistence or transport.
package fiskal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bringout/fiskal-api/internal/domain/entity"
	pkgfiskal "github.com/bringout/fiskal-api/pkg/fiskal"
)

var (
	reRegistry13 = regexp.MustCompile(`^\d{13}$`)
	reVAT12      = regexp.MustCompile(`^\d{12}$`)
	reLen3to100  = regexp.MustCompile(`^.{3,100}$`)
	reLen3to50   = regexp.MustCompile(`^.{3,50}$`)
	reLen6to100  = regexp.MustCompile(`^.{6,100}$`)
	reNumber16   = regexp.MustCompile(`^.{1,16}$`)
	reEmail      = regexp.MustCompile(`^[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+$`)
)

// ValidationError carries the collected pre-submission messages. Submission
// is blocked entirely while any message exists; there is no partial submit.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// ValidatePartner checks a partner's address and tax identifiers against the
// fiscalization format rules. Identifier rules apply only to country BA;
// address rules apply everywhere. Returns human-readable messages, empty when
// valid. isCompany marks the issuing company's own partner record; both sides
// are held to the same rules.
func ValidatePartner(p *entity.Partner, isCompany bool) []string {
	_ = isCompany
	var messages []string

	if p.CountryCode == "BA" {
		if !reRegistry13.MatchString(p.CompanyRegistry) {
			messages = append(messages, fmt.Sprintf("- ID broj mora biti 13 znakova: '%s'", p.CompanyRegistry))
		}
		// NE-PDV obveznike preskoči
		if !reVAT12.MatchString(p.VAT) && !strings.EqualFold(strings.TrimSpace(p.FiscalPosition), pkgfiskal.FiscalPositionNonPDV) {
			messages = append(messages, fmt.Sprintf("- PDV broj mora biti 12 znakova: '%s'", p.VAT))
		}
	}
	if !reLen3to100.MatchString(p.Street) {
		messages = append(messages, "- Ulica min 3, max 100 znakova")
	}
	if p.Street2 != "" && !reLen3to100.MatchString(p.Street2) {
		messages = append(messages, "- Ulica2 should be min 3, 100 znakova")
	}
	if !reLen3to100.MatchString(p.City) {
		messages = append(messages, "- Grad mora imati min 3 max 100 znakova")
	}
	if p.CountryCode == "BA" && !reLen3to50.MatchString(p.StateName) {
		messages = append(messages, "- Kanton mora biti 3-50 znakova")
	}
	if p.Email != "" && (!reEmail.MatchString(p.Email) || !reLen6to100.MatchString(p.Email)) {
		messages = append(messages, "- email adresa treba biti validna, ne može imati više od 100 znakova")
	}

	if len(messages) > 0 {
		messages = append([]string{p.DisplayName()}, messages...)
	}
	return messages
}

// CheckInvoice runs the full pre-submission gate: buyer and seller partner
// validation, document number length, negative discounts and PDV tag mapping
// per line. All failures are collected; any failure blocks submission.
func CheckInvoice(inv *entity.Invoice, buyer, seller *entity.Partner) []string {
	var messages []string
	messages = append(messages, ValidatePartner(buyer, false)...)
	messages = append(messages, ValidatePartner(seller, true)...)

	if !reNumber16.MatchString(inv.Number) {
		messages = append(messages, "Broj fakture ne smije biti veći od 16 znakova")
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
		if !line.IsProduct() {
			continue
		}
		if line.Discount.IsNegative() {
			messages = append(messages, fmt.Sprintf("Negativni popust nije dozvoljen %s", line.Name))
		}
		if !pkgfiskal.HasMappedTag(line.TaxTags) {
			name := line.ProductName
			if name == "" {
				name = line.Name
			}
			messages = append(messages, fmt.Sprintf("Postaviti odgovarajuću stopu PDV na liniju \"%s\"", name))
		}
	}
	return messages
}

// Applicable reports whether the document is subject to fiscalization: a sale
// document of a BA company with at least one taxable PDV tag on its lines.
func Applicable(inv *entity.Invoice, seller *entity.Partner) bool {
	if !inv.IsSaleDocument() {
		return false
	}
	if seller == nil || seller.CountryCode != "BA" {
		return false
	}
	for i := range inv.Lines {
		if pkgfiskal.HasTaxableTag(inv.Lines[i].TaxTags) {
			return true
		}
	}
	return false
}

// Package fiskal holds the fixed catalogues and helpers for FBiH
// fiscalization: PDV tax-tag buckets, payment-method phrase sets and the
// shared rounding rule. Pure package, no dependencies on internal/.
package fiskal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PDV codes. Derived from invoice line tax tags; "other" when no tag maps.
const (
	PDVCodeA     = "A"
	PDVCodeE     = "E"
	PDVCodeK     = "K"
	PDVCodeOther = "other"
)

// Payment types accepted by the fiscal server.
const (
	PaymentWireTransfer = "WireTransfer"
	PaymentCash         = "Cash"
	PaymentCard         = "Card"
	PaymentOther        = "Other"
)

// Receipt types for the duplikat endpoint.
const (
	ReceiptTypeInvoice = "F"
	ReceiptTypeRefund  = "R"
)

// Tag code carried by lines whose base is non-taxable but still reportable.
const TagEBase = "E_base"

// Fiscal position name that exempts a BA partner from the 12-digit VAT rule.
const FiscalPositionNonPDV = "NE-PDV OBVEZNIK"

// taxableTags are the l10n_bs tags that make a document fiskalizable.
var taxableTags = map[string]struct{}{
	PDVCodeE: {},
	PDVCodeK: {},
	PDVCodeA: {},
}

// nonTaxableBaseTags complete the set of mapped tags for line-level checks.
var nonTaxableBaseTags = map[string]struct{}{
	TagEBase: {},
}

// Payment-method phrases. The narration match has priority over the
// payment-term match (kod storno računa način plaćanja ide u opis računa).
var (
	cashPhrases = []string{"NAČIN PLAĆANJA: GOTOVINA", "PLAĆANJE GOTOVINOM"}
	cardPhrases = []string{"NAČIN PLAĆANJA: KARTICA", "PLAĆANJE KARTICOM"}
)

// upperBS uppercases with Bosnian case mapping so that ć/č/ž survive the
// comparison against the fixed phrase sets.
var upperBS = cases.Upper(language.Make("bs"))

// IsTaxableTag reports whether tag belongs to the taxable PDV set (A, E, K).
func IsTaxableTag(tag string) bool {
	_, ok := taxableTags[tag]
	return ok
}

// IsMappedTag reports whether tag maps to any known PDV bucket, including the
// non-taxable base tag. Lines without at least one mapped tag fail validation.
func IsMappedTag(tag string) bool {
	if IsTaxableTag(tag) {
		return true
	}
	_, ok := nonTaxableBaseTags[tag]
	return ok
}

// HasMappedTag reports whether any of tags maps to a known PDV bucket.
func HasMappedTag(tags []string) bool {
	for _, t := range tags {
		if IsMappedTag(t) {
			return true
		}
	}
	return false
}

// HasTaxableTag reports whether any of tags belongs to the taxable set.
func HasTaxableTag(tags []string) bool {
	for _, t := range tags {
		if IsTaxableTag(t) {
			return true
		}
	}
	return false
}

// PDVCodeForTags derives the PDV bucket from line tax tags. Scan order is
// A, E, K; first match wins. Unmapped tags fall through to "other".
func PDVCodeForTags(tags []string) string {
	for _, code := range []string{PDVCodeA, PDVCodeE, PDVCodeK} {
		for _, t := range tags {
			if t == code {
				return code
			}
		}
	}
	return PDVCodeOther
}

// matchesPhrases reports whether s matches the phrase set. A match is either
// the phrase appearing inside s (narrations) or s appearing inside the phrase
// (short payment-term names like "GOTOVINA").
func matchesPhrases(s string, phrases []string) bool {
	s = strings.TrimSpace(upperBS.String(s))
	if s == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(s, p) || strings.Contains(p, s) {
			return true
		}
	}
	return false
}

// PaymentMethod resolves the payment type for an invoice from its
// payment-term name and narration. Default is WireTransfer; the narration,
// when it matches, overrides the payment term.
func PaymentMethod(paymentTerm, narration string) string {
	method := PaymentWireTransfer
	if matchesPhrases(paymentTerm, cashPhrases) {
		method = PaymentCash
	} else if matchesPhrases(paymentTerm, cardPhrases) {
		method = PaymentCard
	}
	if matchesPhrases(narration, cashPhrases) {
		method = PaymentCash
	} else if matchesPhrases(narration, cardPhrases) {
		method = PaymentCard
	}
	return method
}

package domain

import "errors"

// Domain sentinels (no external dependencies).
var (
	ErrNotFound           = errors.New("resurs nije pronađen")
	ErrUserNotFound       = errors.New("korisnik nije pronađen")
	ErrEmailAlreadyExists = errors.New("email je već registrovan")
	ErrInvalidInput       = errors.New("neispravan unos")
	ErrDuplicate          = errors.New("resurs već postoji")
	ErrUnauthorized       = errors.New("nije autorizovano")
	ErrForbidden          = errors.New("pristup odbijen")
	ErrConflict           = errors.New("konflikt sa trenutnim stanjem")

	// ErrNotApplicable: document is not subject to fiscalization (not a sale
	// document, company outside BA, or no taxable PDV tags on its lines).
	ErrNotApplicable = errors.New("dokument ne podliježe fiskalizaciji")

	// ErrAlreadyFiscalized: the invoice already carries a fiscal receipt
	// number; the number is set once and never overwritten.
	ErrAlreadyFiscalized = errors.New("dokument je već fiskaliziran")

	// ErrNotFiscalized: the operation (duplikat, receipt copy) needs a stored
	// fiscal receipt number.
	ErrNotFiscalized = errors.New("dokument nije fiskaliziran")

	// ErrFiscalizedImmutable is the fixed policy rejection for any attempt to
	// cancel or revert a fiscalized document.
	ErrFiscalizedImmutable = errors.New("Fiskalizirani dokumenti se ne mogu vraćati u pripremu")

	// ErrFiskalNotConfigured: company is missing api host / api key / pin.
	ErrFiskalNotConfigured = errors.New("fiskalne funkcije nisu podešene")

	// ErrCompanyVATMissing: fiscal settings cannot be saved before the
	// company has its PDV broj.
	ErrCompanyVATMissing = errors.New("Molimo unesite PDV broj za preduzeće.")
)

package entity

import "time"

// Attachment stores the fiscal server response verbatim, linked to the
// invoice, for audit and receipt reprints. Named
// "<invoice-number-with-slashes-replaced>_fiskalni.json".
type Attachment struct {
	ID        string
	InvoiceID string
	Name      string
	Mimetype  string // application/json
	Raw       []byte
	CreatedAt time.Time
}

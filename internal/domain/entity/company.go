package entity

import "time"

// Company is a tenant of the fiscalization bridge. The fiscal server
// credentials mirror the per-company settings of the source ERP and are
// editable only by administrators.
type Company struct {
	ID        string
	Name      string
	VAT       string // 12-digit PDV broj of the company itself
	PartnerID string // seller partner record used on outgoing documents
	Status    string // active, suspended, inactive

	// Fiscal server settings, e.g. http://fisk.test.com:3556
	FiskalAPIHost    string
	FiskalAPIKey     string
	FiskalPIN        string
	FiskalProduction bool // true once the fiscal functions run in production

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FiskalConfigured reports whether the company can talk to the fiscal server.
// The PIN is only needed for the duplikat endpoint and is checked there.
func (c *Company) FiskalConfigured() bool {
	return c.FiskalAPIHost != "" && c.FiskalAPIKey != ""
}

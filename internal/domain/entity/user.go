package entity

import "time"

// User roles. Fiscal settings are admin-only; knjigovođa can submit documents.
const (
	RoleAdmin       = "admin"
	RoleKnjigovodja = "knjigovodja"
)

// User is an API account of a tenant company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past registration
	Name         string
	Role         string // admin, knjigovodja
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

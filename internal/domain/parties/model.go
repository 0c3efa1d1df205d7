// Package parties provides the supplier and client catalogs.
// Suppliers and clients share one model and differ only by the ledger
// they take part in (purchases vs sales).
package parties

import (
	"context"
	"regexp"
	"strings"

	"facturio/internal/core/apperror"
	"facturio/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Kind distinguishes the two catalogs.
type Kind string

const (
	KindSupplier Kind = "supplier"
	KindClient   Kind = "client"
)

// Party represents a supplier or a client.
type Party struct {
	entity.Base

	Name    string  `db:"name" json:"name"`
	Email   string  `db:"email" json:"email"`
	Phone   string  `db:"phone" json:"phone"`
	Address string  `db:"address" json:"address"`
	TaxID   *string `db:"tax_id" json:"taxId,omitempty"`
}

// NewParty creates a new Party with required fields.
func NewParty(name, email, phone, address string) *Party {
	return &Party{
		Base:    entity.NewBase(),
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	}
}

// Validate implements entity.Validatable.
func (p *Party) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if strings.TrimSpace(p.Email) == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}

	if !emailRE.MatchString(p.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", p.Email)
	}

	if strings.TrimSpace(p.Phone) == "" {
		return apperror.NewValidation("phone is required").
			WithDetail("field", "phone")
	}

	if strings.TrimSpace(p.Address) == "" {
		return apperror.NewValidation("address is required").
			WithDetail("field", "address")
	}

	return nil
}

package dto

import (
	"facturio/internal/domain/parties"
)

// CreatePartyRequest for creating suppliers and clients.
type CreatePartyRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Address string  `json:"address" binding:"required"`
	TaxID   *string `json:"taxId"`
}

// ToEntity maps the request to a new Party.
func (r CreatePartyRequest) ToEntity() *parties.Party {
	p := parties.NewParty(r.Name, r.Email, r.Phone, r.Address)
	p.TaxID = r.TaxID
	return p
}

// UpdatePartyRequest replaces the party's editable fields.
type UpdatePartyRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Address string  `json:"address" binding:"required"`
	TaxID   *string `json:"taxId"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo writes the request fields onto an existing party.
func (r UpdatePartyRequest) ApplyTo(p *parties.Party) {
	p.Name = r.Name
	p.Email = r.Email
	p.Phone = r.Phone
	p.Address = r.Address
	p.TaxID = r.TaxID
	p.SetVersion(r.Version)
}

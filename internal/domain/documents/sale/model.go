// Package sale provides the sale invoice document.
package sale

import (
	"context"
	"strings"
	"time"

	"facturio/internal/core/apperror"
	"facturio/internal/core/entity"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
	"facturio/internal/domain/documents"
)

// Status of a sale invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is a known sale status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Invoice represents a sale invoice.
type Invoice struct {
	entity.Base

	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`

	ClientID id.ID `db:"client_id" json:"clientId"`

	// ClientName is joined on read, never stored on the invoice.
	ClientName string `db:"client_name" json:"clientName,omitempty"`

	InvoiceDate time.Time  `db:"invoice_date" json:"date"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`

	Status Status `db:"status" json:"status"`

	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	Total     types.Money `db:"total" json:"total"`

	// BasedOnPurchase links a resale back to the purchase invoice the
	// goods came from. Informational only.
	BasedOnPurchase *id.ID `db:"based_on_purchase" json:"basedOnPurchase,omitempty"`

	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`

	Items []documents.Item `db:"-" json:"items"`
}

// NewInvoice creates a sale invoice with defaults.
func NewInvoice(number string, clientID id.ID, date time.Time) *Invoice {
	return &Invoice{
		Base:          entity.NewBase(),
		InvoiceNumber: number,
		ClientID:      clientID,
		InvoiceDate:   date,
		Status:        StatusDraft,
		Subtotal:      types.Zero(),
		TaxAmount:     types.Zero(),
		Total:         types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "invoiceNumber")
	}

	if id.IsNil(inv.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "client")
	}

	if inv.InvoiceDate.IsZero() {
		return apperror.NewValidation("invoice date is required").
			WithDetail("field", "date")
	}

	if !inv.Status.Valid() {
		return apperror.NewValidation("invalid sale invoice status").
			WithDetail("field", "status").
			WithDetail("value", string(inv.Status))
	}

	return nil
}

// ApplyTotals sets the computed invoice amounts.
func (inv *Invoice) ApplyTotals(t documents.Totals) {
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}

// Package purchase provides the purchase invoice document.
// Purchase invoices record incoming goods and feed the product ledger.
package purchase

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

// Status of a purchase invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is a known purchase status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Invoice represents a purchase invoice.
type Invoice struct {
	entity.Base

	// InvoiceNumber is supplied by the user and unique within the
	// purchase ledger.
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// SupplierName is joined on read, never stored on the invoice.
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	InvoiceDate time.Time  `db:"invoice_date" json:"date"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`

	Status Status `db:"status" json:"status"`

	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	Total     types.Money `db:"total" json:"total"`

	Notes string `db:"notes" json:"notes,omitempty"`

	Items []documents.Item `db:"-" json:"items"`
}

// NewInvoice creates a purchase invoice with defaults.
func NewInvoice(number string, supplierID id.ID, date time.Time) *Invoice {
	return &Invoice{
		Base:          entity.NewBase(),
		InvoiceNumber: number,
		SupplierID:    supplierID,
		InvoiceDate:   date,
		Status:        StatusPending,
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

	if id.IsNil(inv.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier")
	}

	if inv.InvoiceDate.IsZero() {
		return apperror.NewValidation("invoice date is required").
			WithDetail("field", "date")
	}

	if !inv.Status.Valid() {
		return apperror.NewValidation("invalid purchase invoice status").
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

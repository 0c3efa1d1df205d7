// Package documents provides types shared by purchase and sale invoices:
// the line item model and the invoice totals calculator.
package documents

import (
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

// Type identifies which ledger an item belongs to.
type Type string

const (
	TypePurchase Type = "purchase"
	TypeSale     Type = "sale"
)

// Item represents one line of an invoice. Items of both ledgers live in
// a single table, discriminated by InvoiceType.
type Item struct {
	ID          id.ID `db:"id" json:"id"`
	InvoiceID   id.ID `db:"invoice_id" json:"-"`
	InvoiceType Type  `db:"invoice_type" json:"-"`

	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   types.Money     `db:"unit_price" json:"unitPrice"`

	// TaxRate is a percentage in [0, 100].
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`

	// LineTotal is quantity * unitPrice before tax, set by the calculator.
	LineTotal types.Money `db:"line_total" json:"lineTotal"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewItem creates an item with a generated ID. Invoice linkage is set
// when the invoice is persisted.
func NewItem(description string, quantity decimal.Decimal, unitPrice, taxRate types.Money) Item {
	return Item{
		ID:          id.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		CreatedAt:   time.Now().UTC(),
	}
}

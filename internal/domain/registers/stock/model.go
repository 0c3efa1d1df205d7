// Package stock maintains the product ledger derived from invoice
// activity. Products are keyed by normalized item description and
// updated by reconciliation events on invoice creation and deletion.
package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/entity"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

// DefaultLowStockThreshold is used when a caller does not supply one.
const DefaultLowStockThreshold = 10

// Product is one row of the derived product ledger.
type Product struct {
	entity.Base

	// Description as first seen on a purchase line. Matching is
	// case-insensitive on the trimmed description.
	Description string `db:"description" json:"description"`

	TotalQuantity decimal.Decimal `db:"total_quantity" json:"totalQuantity"`

	// AverageUnitPrice is the weighted average over purchases. It is
	// never recomputed on deletions.
	AverageUnitPrice types.Money `db:"average_unit_price" json:"averageUnitPrice"`

	// Metadata of the most recent purchase (last write wins).
	LastPurchasePrice types.Money `db:"last_purchase_price" json:"lastPurchasePrice"`
	LastPurchaseDate  time.Time   `db:"last_purchase_date" json:"lastPurchaseDate"`
	SupplierID        id.ID       `db:"supplier_id" json:"supplierId"`
	SupplierName      string      `db:"supplier_name" json:"supplierName"`
	TaxRate           types.Money `db:"tax_rate" json:"taxRate"`

	// Purchases is the purchase history, loaded on listing.
	Purchases []PurchaseRecord `db:"-" json:"purchases,omitempty"`
}

// PurchaseRecord is one historical purchase of a product, joined from
// the purchase ledger.
type PurchaseRecord struct {
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice     types.Money     `db:"unit_price" json:"unitPrice"`
	InvoiceNumber string          `db:"invoice_number" json:"invoiceNumber"`
	Date          time.Time       `db:"invoice_date" json:"date"`
}

// IsLowStock reports whether the product is at or below the threshold.
func (p *Product) IsLowStock(threshold decimal.Decimal) bool {
	return p.TotalQuantity.LessThanOrEqual(threshold)
}

package stock

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/entity"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

// PurchaseLine is the reconciliation event for one purchased item.
type PurchaseLine struct {
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    types.Money
	TaxRate      types.Money
	SupplierID   id.ID
	SupplierName string
	Date         time.Time
}

// ReversalLine is the reconciliation event for one item of a deleted
// invoice.
type ReversalLine struct {
	Description string
	Quantity    decimal.Decimal
}

// NormalizeKey returns the product matching key for a description:
// trimmed and lowercased.
func NormalizeKey(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

// NewProduct builds a product row from the first purchase of an item.
func NewProduct(line PurchaseLine) *Product {
	return &Product{
		Base:              entity.NewBase(),
		Description:       strings.TrimSpace(line.Description),
		TotalQuantity:     line.Quantity,
		AverageUnitPrice:  line.UnitPrice,
		LastPurchasePrice: line.UnitPrice,
		LastPurchaseDate:  line.Date,
		SupplierID:        line.SupplierID,
		SupplierName:      line.SupplierName,
		TaxRate:           line.TaxRate,
	}
}

// MergePurchase folds a purchase line into an existing product:
// quantity accumulates, the average price is the quantity-weighted
// average of old stock and the new batch, and the purchase metadata
// (last price, date, supplier, tax rate) is overwritten.
func MergePurchase(p *Product, line PurchaseLine) {
	oldQty := p.TotalQuantity
	newQty := oldQty.Add(line.Quantity)

	if newQty.IsPositive() {
		oldValue := p.AverageUnitPrice.Mul(oldQty)
		newValue := line.UnitPrice.Mul(line.Quantity)
		p.AverageUnitPrice = oldValue.Add(newValue).Div(newQty)
	} else {
		p.AverageUnitPrice = line.UnitPrice
	}

	p.TotalQuantity = newQty
	p.LastPurchasePrice = line.UnitPrice
	p.LastPurchaseDate = line.Date
	p.SupplierID = line.SupplierID
	p.SupplierName = line.SupplierName
	p.TaxRate = line.TaxRate
}

// ReducePurchaseDeletion reverses a purchased quantity. The quantity is
// clamped at zero; reaching exactly zero removes the product row
// (remove == true). Price fields are left untouched: the average is a
// historical figure and is not recomputed on deletions.
func ReducePurchaseDeletion(p *Product, quantity decimal.Decimal) (remove bool) {
	newQty := p.TotalQuantity.Sub(quantity)
	if newQty.IsNegative() {
		newQty = decimal.Zero
	}

	if newQty.IsZero() {
		return true
	}

	p.TotalQuantity = newQty
	return false
}

// ApplySaleReturn restores quantity sold on a deleted sale invoice.
// Only the quantity changes; no price fields are touched.
func ApplySaleReturn(p *Product, quantity decimal.Decimal) {
	p.TotalQuantity = p.TotalQuantity.Add(quantity)
}

package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

func purchaseLine(desc, qty, price string) PurchaseLine {
	return PurchaseLine{
		Description:  desc,
		Quantity:     decimal.RequireFromString(qty),
		UnitPrice:    types.MustMoney(price),
		TaxRate:      types.MustMoney("20"),
		SupplierID:   id.New(),
		SupplierName: "Fournitures Dupont",
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "widget", NormalizeKey("  Widget "))
	assert.Equal(t, "widget", NormalizeKey("WIDGET"))
	assert.Equal(t, NormalizeKey("Stylo Bleu"), NormalizeKey("stylo bleu  "))
}

func TestNewProduct(t *testing.T) {
	line := purchaseLine("Widget", "10", "5.00")
	p := NewProduct(line)

	assert.Equal(t, "Widget", p.Description)
	assert.Equal(t, "10", p.TotalQuantity.String())
	assert.Equal(t, "5", p.AverageUnitPrice.String())
	assert.Equal(t, "5", p.LastPurchasePrice.String())
	assert.Equal(t, line.SupplierID, p.SupplierID)
	assert.Equal(t, 1, p.Version)
}

func TestMergePurchase(t *testing.T) {
	t.Run("weighted average", func(t *testing.T) {
		p := NewProduct(purchaseLine("Widget", "10", "5.00"))

		MergePurchase(p, purchaseLine("widget", "5", "8.00"))

		// (5*10 + 8*5) / 15 = 6
		assert.Equal(t, "15", p.TotalQuantity.String())
		assert.Equal(t, "6", p.AverageUnitPrice.String())
		assert.Equal(t, "8", p.LastPurchasePrice.String())
	})

	t.Run("metadata is overwritten by the latest purchase", func(t *testing.T) {
		p := NewProduct(purchaseLine("Widget", "10", "5.00"))

		newer := purchaseLine("Widget", "1", "9.00")
		newer.SupplierName = "Grossiste Martin"
		newer.TaxRate = types.MustMoney("5.5")
		newer.Date = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		MergePurchase(p, newer)

		assert.Equal(t, "Grossiste Martin", p.SupplierName)
		assert.Equal(t, newer.SupplierID, p.SupplierID)
		assert.Equal(t, "5.5", p.TaxRate.String())
		assert.Equal(t, newer.Date, p.LastPurchaseDate)
	})
}

func TestReducePurchaseDeletion(t *testing.T) {
	t.Run("partial deletion keeps the average", func(t *testing.T) {
		p := NewProduct(purchaseLine("Widget", "10", "5.00"))
		MergePurchase(p, purchaseLine("Widget", "5", "8.00"))
		require.Equal(t, "6", p.AverageUnitPrice.String())

		remove := ReducePurchaseDeletion(p, decimal.RequireFromString("5"))

		assert.False(t, remove)
		assert.Equal(t, "10", p.TotalQuantity.String())
		// Average reflects history, not the remaining stock.
		assert.Equal(t, "6", p.AverageUnitPrice.String())
		assert.Equal(t, "8", p.LastPurchasePrice.String())
	})

	t.Run("reaching zero removes the product", func(t *testing.T) {
		p := NewProduct(purchaseLine("Widget", "10", "5.00"))

		remove := ReducePurchaseDeletion(p, decimal.RequireFromString("10"))
		assert.True(t, remove)
	})

	t.Run("over-deletion clamps at zero and removes", func(t *testing.T) {
		p := NewProduct(purchaseLine("Widget", "10", "5.00"))

		remove := ReducePurchaseDeletion(p, decimal.RequireFromString("25"))
		assert.True(t, remove)
	})
}

func TestApplySaleReturn(t *testing.T) {
	p := NewProduct(purchaseLine("Widget", "10", "5.00"))
	avg := p.AverageUnitPrice

	ApplySaleReturn(p, decimal.RequireFromString("3"))

	assert.Equal(t, "13", p.TotalQuantity.String())
	assert.True(t, p.AverageUnitPrice.Equal(avg))
}

package documents

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/apperror"
	"facturio/internal/core/types"
)

func item(desc, qty, price, rate string) Item {
	return NewItem(
		desc,
		decimal.RequireFromString(qty),
		types.MustMoney(price),
		types.MustMoney(rate),
	)
}

func TestCalculateTotals(t *testing.T) {
	t.Run("empty list yields zero totals", func(t *testing.T) {
		totals, err := CalculateTotals(nil)
		require.NoError(t, err)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.TaxAmount.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("single line", func(t *testing.T) {
		items := []Item{item("Widget", "10", "5.00", "20")}

		totals, err := CalculateTotals(items)
		require.NoError(t, err)
		assert.Equal(t, "50", totals.Subtotal.String())
		assert.Equal(t, "10", totals.TaxAmount.String())
		assert.Equal(t, "60", totals.Total.String())
		assert.Equal(t, "50", items[0].LineTotal.String())
	})

	t.Run("mixed rates accumulate per line", func(t *testing.T) {
		items := []Item{
			item("Widget", "2", "10.00", "20"),
			item("Gadget", "3", "4.00", "5.5"),
			item("Untaxed", "1", "100.00", "0"),
		}

		totals, err := CalculateTotals(items)
		require.NoError(t, err)
		// 20 + 12 + 100
		assert.Equal(t, "132", totals.Subtotal.String())
		// 4 + 0.66 + 0
		assert.Equal(t, "4.66", totals.TaxAmount.String())
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)))
	})

	t.Run("total equals subtotal plus tax", func(t *testing.T) {
		items := []Item{
			item("A", "7", "3.33", "19.6"),
			item("B", "0.5", "99.99", "10"),
		}

		totals, err := CalculateTotals(items)
		require.NoError(t, err)
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)))
	})
}

func TestCalculateTotalsValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		field string
	}{
		{"zero quantity", []Item{item("A", "0", "5.00", "20")}, "quantity"},
		{"negative quantity", []Item{item("A", "-1", "5.00", "20")}, "quantity"},
		{"negative price", []Item{item("A", "1", "-0.01", "20")}, "unitPrice"},
		{"rate above 100", []Item{item("A", "1", "5.00", "100.1")}, "taxRate"},
		{"negative rate", []Item{item("A", "1", "5.00", "-1")}, "taxRate"},
		{"blank description", []Item{item("   ", "1", "5.00", "20")}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateTotals(tt.items)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
			assert.Equal(t, 1, appErr.Details["lineNo"])
		})
	}

	t.Run("second line reported with its number", func(t *testing.T) {
		items := []Item{
			item("OK", "1", "5.00", "20"),
			item("Bad", "0", "5.00", "20"),
		}
		_, err := CalculateTotals(items)
		require.Error(t, err)

		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, 2, appErr.Details["lineNo"])
	})

	t.Run("boundary rates are accepted", func(t *testing.T) {
		items := []Item{
			item("A", "1", "5.00", "0"),
			item("B", "1", "5.00", "100"),
		}
		_, err := CalculateTotals(items)
		require.NoError(t, err)
	})
}

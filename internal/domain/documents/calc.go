package documents

import (
	"strings"

	"facturio/internal/core/apperror"
	"facturio/internal/core/types"
)

// Totals holds the computed invoice amounts.
type Totals struct {
	Subtotal  types.Money `json:"subtotal"`
	TaxAmount types.Money `json:"taxAmount"`
	Total     types.Money `json:"total"`
}

// ValidateItem checks one line. lineNo is 1-based and reported in the
// error details.
func ValidateItem(lineNo int, item Item) error {
	if strings.TrimSpace(item.Description) == "" {
		return apperror.NewValidation("item description is required").
			WithDetail("lineNo", lineNo).
			WithDetail("field", "description")
	}

	if !item.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("lineNo", lineNo).
			WithDetail("field", "quantity").
			WithDetail("value", item.Quantity.String())
	}

	if item.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("lineNo", lineNo).
			WithDetail("field", "unitPrice").
			WithDetail("value", item.UnitPrice.String())
	}

	if item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(types.Hundred) {
		return apperror.NewValidation("tax rate must be between 0 and 100").
			WithDetail("lineNo", lineNo).
			WithDetail("field", "taxRate").
			WithDetail("value", item.TaxRate.String())
	}

	return nil
}

// CalculateTotals validates every line, fills each item's LineTotal and
// returns the invoice totals:
//
//	subtotal  = sum(quantity * unitPrice)
//	taxAmount = sum(quantity * unitPrice * taxRate / 100)
//	total     = subtotal + taxAmount
//
// An empty item list yields zero totals.
func CalculateTotals(items []Item) (Totals, error) {
	totals := Totals{
		Subtotal:  types.Zero(),
		TaxAmount: types.Zero(),
		Total:     types.Zero(),
	}

	for i := range items {
		if err := ValidateItem(i+1, items[i]); err != nil {
			return Totals{}, err
		}

		lineBase := items[i].Quantity.Mul(items[i].UnitPrice)
		lineTax := lineBase.Mul(items[i].TaxRate).Div(types.Hundred)
		items[i].LineTotal = lineBase

		totals.Subtotal = totals.Subtotal.Add(lineBase)
		totals.TaxAmount = totals.TaxAmount.Add(lineTax)
	}

	totals.Total = totals.Subtotal.Add(totals.TaxAmount)
	return totals, nil
}

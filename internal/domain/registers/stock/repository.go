package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"facturio/internal/core/id"
)

// ListFilter narrows product listings.
type ListFilter struct {
	// Search matches description or supplier name, case-insensitive.
	Search string

	// LowStock keeps only products at or below Threshold.
	LowStock  bool
	Threshold decimal.Decimal
}

// Repository defines persistence for the product ledger.
type Repository interface {
	// GetByKey retrieves the product whose normalized description equals
	// key. Returns NotFound when no product matches.
	GetByKey(ctx context.Context, key string) (*Product, error)

	Create(ctx context.Context, p *Product) error

	// Update persists all reconciled fields of the product.
	Update(ctx context.Context, p *Product) error

	// UpdateQuantity persists the quantity only, leaving price fields
	// as they are.
	UpdateQuantity(ctx context.Context, productID id.ID, quantity decimal.Decimal) error

	Delete(ctx context.Context, productID id.ID) error

	// List returns products ordered by description ascending.
	List(ctx context.Context, filter ListFilter) ([]*Product, error)

	// PurchaseHistory returns all purchase lines matching the product
	// description (case-insensitive), newest first, with the invoice
	// number and date joined in.
	PurchaseHistory(ctx context.Context, description string) ([]PurchaseRecord, error)
}

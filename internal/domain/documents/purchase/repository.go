package purchase

import (
	"context"

	"facturio/internal/core/id"
	"facturio/internal/domain"
	"facturio/internal/domain/documents"
)

// Repository defines persistence operations for purchase invoices.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves the invoice header with the supplier name joined.
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// FindByNumber retrieves an invoice by its number. Returns NotFound
	// when no invoice matches.
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// Update persists header fields (with optimistic locking).
	// Items are immutable after creation.
	Update(ctx context.Context, inv *Invoice) error

	Delete(ctx context.Context, invoiceID id.ID) error

	// List returns invoices newest first, searchable by number and
	// supplier name, filterable by status.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error)

	GetItems(ctx context.Context, invoiceID id.ID) ([]documents.Item, error)
	SaveItems(ctx context.Context, invoiceID id.ID, items []documents.Item) error
	DeleteItems(ctx context.Context, invoiceID id.ID) error
}

package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/types"
)

// Repository defines dashboard data access.
type Repository interface {
	GetCounts(ctx context.Context) (Counts, error)

	// GetInvoiceTotals returns the summed totals of both ledgers.
	GetInvoiceTotals(ctx context.Context) (purchases, sales types.Money, err error)

	GetRecentPurchases(ctx context.Context, limit int) ([]RecentInvoice, error)
	GetRecentSales(ctx context.Context, limit int) ([]RecentInvoice, error)

	// GetMonthlySeries returns purchase and sale volume per calendar
	// month for the trailing months window, oldest first.
	GetMonthlySeries(ctx context.Context, months int) ([]MonthlyPoint, error)

	GetStatusBreakdown(ctx context.Context) (StatusBreakdown, error)

	GetTopSuppliers(ctx context.Context, limit int) ([]TopParty, error)
	GetTopClients(ctx context.Context, limit int) ([]TopParty, error)

	// CountOverdueInvoices counts unpaid invoices whose due date has
	// passed as of the given instant, across both ledgers.
	CountOverdueInvoices(ctx context.Context, asOf time.Time) (int, error)

	CountLowStockProducts(ctx context.Context, threshold decimal.Decimal) (int, error)

	// Ping verifies database connectivity for the health widget.
	Ping(ctx context.Context) error
}

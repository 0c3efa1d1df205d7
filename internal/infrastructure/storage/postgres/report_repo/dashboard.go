// Package report_repo provides PostgreSQL implementation for dashboard
// aggregation. Queries are hand-written SQL: they cut across both
// ledgers and do not fit the builder-based repos.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"facturio/internal/core/types"
	"facturio/internal/domain/reports"
	"facturio/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ reports.Repository = (*DashboardRepo)(nil)

// DashboardRepo implements reports.Repository.
type DashboardRepo struct {
	txm *postgres.TxManager
}

// NewDashboardRepo creates a new dashboard repository.
func NewDashboardRepo(txm *postgres.TxManager) *DashboardRepo {
	return &DashboardRepo{txm: txm}
}

// GetCounts returns entity totals in a single round-trip.
func (r *DashboardRepo) GetCounts(ctx context.Context) (reports.Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM suppliers) AS suppliers,
			(SELECT COUNT(*) FROM clients) AS clients,
			(SELECT COUNT(*) FROM purchase_invoices) AS purchase_invoices,
			(SELECT COUNT(*) FROM sale_invoices) AS sale_invoices,
			(SELECT COUNT(*) FROM products) AS products`

	var c reports.Counts
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query).Scan(
		&c.Suppliers, &c.Clients, &c.PurchaseInvoices, &c.SaleInvoices, &c.Products)
	if err != nil {
		return reports.Counts{}, fmt.Errorf("dashboard counts: %w", err)
	}

	return c, nil
}

// GetInvoiceTotals sums the totals of both ledgers.
func (r *DashboardRepo) GetInvoiceTotals(ctx context.Context) (types.Money, types.Money, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(total) FROM purchase_invoices), 0) AS purchases,
			COALESCE((SELECT SUM(total) FROM sale_invoices), 0) AS sales`

	var purchases, sales types.Money
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query).Scan(&purchases, &sales)
	if err != nil {
		return types.Zero(), types.Zero(), fmt.Errorf("invoice totals: %w", err)
	}

	return purchases, sales, nil
}

// GetRecentPurchases returns the latest purchase invoices.
func (r *DashboardRepo) GetRecentPurchases(ctx context.Context, limit int) ([]reports.RecentInvoice, error) {
	query := `
		SELECT p.id, p.invoice_number, s.name AS party_name, p.invoice_date, p.status, p.total
		FROM purchase_invoices p
		JOIN suppliers s ON s.id = p.supplier_id
		ORDER BY p.invoice_date DESC, p.created_at DESC
		LIMIT $1`

	var items []reports.RecentInvoice
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, limit); err != nil {
		return nil, fmt.Errorf("recent purchases: %w", err)
	}

	return items, nil
}

// GetRecentSales returns the latest sale invoices.
func (r *DashboardRepo) GetRecentSales(ctx context.Context, limit int) ([]reports.RecentInvoice, error) {
	query := `
		SELECT v.id, v.invoice_number, c.name AS party_name, v.invoice_date, v.status, v.total
		FROM sale_invoices v
		JOIN clients c ON c.id = v.client_id
		ORDER BY v.invoice_date DESC, v.created_at DESC
		LIMIT $1`

	var items []reports.RecentInvoice
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, limit); err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}

	return items, nil
}

// GetMonthlySeries returns per-month volume for the trailing window,
// oldest month first. Months without invoices appear with zeros.
func (r *DashboardRepo) GetMonthlySeries(ctx context.Context, months int) ([]reports.MonthlyPoint, error) {
	query := `
		WITH months AS (
			SELECT date_trunc('month', NOW()) - (n || ' month')::interval AS start
			FROM generate_series($1::int - 1, 0, -1) AS n
		)
		SELECT
			to_char(m.start, 'YYYY-MM') AS month,
			(SELECT COUNT(*) FROM purchase_invoices p
				WHERE date_trunc('month', p.invoice_date) = m.start) AS purchase_count,
			COALESCE((SELECT SUM(p.total) FROM purchase_invoices p
				WHERE date_trunc('month', p.invoice_date) = m.start), 0) AS purchases,
			(SELECT COUNT(*) FROM sale_invoices v
				WHERE date_trunc('month', v.invoice_date) = m.start) AS sale_count,
			COALESCE((SELECT SUM(v.total) FROM sale_invoices v
				WHERE date_trunc('month', v.invoice_date) = m.start), 0) AS sales
		FROM months m
		ORDER BY m.start`

	var points []reports.MonthlyPoint
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &points, query, months); err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}

	return points, nil
}

// GetStatusBreakdown groups invoice counts by status per ledger.
func (r *DashboardRepo) GetStatusBreakdown(ctx context.Context) (reports.StatusBreakdown, error) {
	var breakdown reports.StatusBreakdown

	purchaseQuery := `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total
		FROM purchase_invoices
		GROUP BY status
		ORDER BY status`

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &breakdown.Purchases, purchaseQuery); err != nil {
		return breakdown, fmt.Errorf("purchase status breakdown: %w", err)
	}

	saleQuery := `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total
		FROM sale_invoices
		GROUP BY status
		ORDER BY status`

	if err := pgxscan.Select(ctx, querier, &breakdown.Sales, saleQuery); err != nil {
		return breakdown, fmt.Errorf("sale status breakdown: %w", err)
	}

	return breakdown, nil
}

// GetTopSuppliers ranks suppliers by purchased volume.
func (r *DashboardRepo) GetTopSuppliers(ctx context.Context, limit int) ([]reports.TopParty, error) {
	query := `
		SELECT s.id AS party_id, s.name, COUNT(*) AS invoice_count, SUM(p.total) AS total_amount
		FROM purchase_invoices p
		JOIN suppliers s ON s.id = p.supplier_id
		GROUP BY s.id, s.name
		ORDER BY total_amount DESC
		LIMIT $1`

	var items []reports.TopParty
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, limit); err != nil {
		return nil, fmt.Errorf("top suppliers: %w", err)
	}

	return items, nil
}

// GetTopClients ranks clients by invoiced revenue.
func (r *DashboardRepo) GetTopClients(ctx context.Context, limit int) ([]reports.TopParty, error) {
	query := `
		SELECT c.id AS party_id, c.name, COUNT(*) AS invoice_count, SUM(v.total) AS total_amount
		FROM sale_invoices v
		JOIN clients c ON c.id = v.client_id
		GROUP BY c.id, c.name
		ORDER BY total_amount DESC
		LIMIT $1`

	var items []reports.TopParty
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, limit); err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}

	return items, nil
}

// CountOverdueInvoices counts unpaid invoices past their due date,
// across both ledgers.
func (r *DashboardRepo) CountOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM purchase_invoices
				WHERE status <> 'paid' AND due_date IS NOT NULL AND due_date < $1)
			+
			(SELECT COUNT(*) FROM sale_invoices
				WHERE status <> 'paid' AND due_date IS NOT NULL AND due_date < $1)`

	var count int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("count overdue invoices: %w", err)
	}

	return count, nil
}

// Ping verifies database connectivity.
func (r *DashboardRepo) Ping(ctx context.Context) error {
	var one int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// CountLowStockProducts counts products at or below the threshold.
func (r *DashboardRepo) CountLowStockProducts(ctx context.Context, threshold decimal.Decimal) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE total_quantity <= $1`

	var count int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, threshold).Scan(&count); err != nil {
		return 0, fmt.Errorf("count low stock products: %w", err)
	}

	return count, nil
}

package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/types"
	"facturio/internal/domain/registers/stock"
	"facturio/pkg/logger"
)

const (
	recentLimit   = 5
	topLimit      = 5
	monthlyWindow = 12
)

// Service aggregates the dashboard from the ledgers. Everything is
// recomputed per request; nothing is cached.
type Service struct {
	repo Repository

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new dashboard service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GetStats assembles the dashboard overview: entity counts, money
// summary and the recent activity feed.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	fin, err := s.GetFinancials(ctx)
	if err != nil {
		return nil, err
	}

	recentPurchases, err := s.repo.GetRecentPurchases(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent purchases: %w", err)
	}
	recentSales, err := s.repo.GetRecentSales(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}

	return &Stats{
		Counts:     counts,
		Financials: fin,
		Recent: RecentActivity{
			Purchases: recentPurchases,
			Sales:     recentSales,
		},
	}, nil
}

// GetCharts assembles the chart data: monthly series, status breakdown
// and top counterparts.
func (s *Service) GetCharts(ctx context.Context) (*Charts, error) {
	monthly, err := s.repo.GetMonthlySeries(ctx, monthlyWindow)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}

	statuses, err := s.repo.GetStatusBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}

	topSuppliers, err := s.repo.GetTopSuppliers(ctx, topLimit)
	if err != nil {
		return nil, fmt.Errorf("top suppliers: %w", err)
	}
	topClients, err := s.repo.GetTopClients(ctx, topLimit)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}

	return &Charts{
		Monthly:  monthly,
		Statuses: statuses,
		Top: TopParties{
			Suppliers: topSuppliers,
			Clients:   topClients,
		},
	}, nil
}

// GetFinancials computes the money summary. The margin divides profit
// by sales revenue; with no revenue it stays at zero instead of
// dividing by zero.
func (s *Service) GetFinancials(ctx context.Context) (Financials, error) {
	purchases, sales, err := s.repo.GetInvoiceTotals(ctx)
	if err != nil {
		return Financials{}, fmt.Errorf("invoice totals: %w", err)
	}

	profit := sales.Sub(purchases)

	margin := types.Zero()
	if !sales.IsZero() {
		margin = profit.Div(sales).Mul(types.Hundred).Round(2)
	}

	return Financials{
		TotalPurchases: purchases,
		TotalSales:     sales,
		Profit:         profit,
		ProfitMargin:   margin,
	}, nil
}

// GetHealth reports database connectivity, overdue invoices and
// low-stock products. A failed ping degrades the report instead of
// failing the request.
func (s *Service) GetHealth(ctx context.Context) (Health, error) {
	now := s.now()

	if err := s.repo.Ping(ctx); err != nil {
		logger.Warn(ctx, "health check database ping failed", "error", err)
		return Health{
			Status:    "degraded",
			Database:  "disconnected",
			Timestamp: now,
		}, nil
	}

	overdue, err := s.repo.CountOverdueInvoices(ctx, now)
	if err != nil {
		return Health{}, fmt.Errorf("overdue invoices: %w", err)
	}

	lowStock, err := s.repo.CountLowStockProducts(ctx,
		decimal.NewFromInt(stock.DefaultLowStockThreshold))
	if err != nil {
		return Health{}, fmt.Errorf("low stock products: %w", err)
	}

	return Health{
		Status:           "ok",
		Database:         "connected",
		OverdueInvoices:  overdue,
		LowStockProducts: lowStock,
		Timestamp:        now,
	}, nil
}

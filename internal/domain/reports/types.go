// Package reports provides dashboard aggregation over the invoice ledgers.
package reports

import (
	"time"

	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

// Counts holds entity totals for the dashboard header.
type Counts struct {
	Suppliers        int `json:"suppliers"`
	Clients          int `json:"clients"`
	PurchaseInvoices int `json:"purchaseInvoices"`
	SaleInvoices     int `json:"saleInvoices"`
	Products         int `json:"products"`
}

// Financials summarizes money flow across both ledgers.
// Profit is sales minus purchases; the margin is profit relative to
// sales revenue, zero when there is no revenue.
type Financials struct {
	TotalPurchases types.Money `json:"totalPurchases"`
	TotalSales     types.Money `json:"totalSales"`
	Profit         types.Money `json:"profit"`
	ProfitMargin   types.Money `json:"profitMargin"`
}

// RecentInvoice is a slim invoice row for the activity feed.
type RecentInvoice struct {
	ID            id.ID       `db:"id" json:"id"`
	InvoiceNumber string      `db:"invoice_number" json:"invoiceNumber"`
	PartyName     string      `db:"party_name" json:"partyName"`
	InvoiceDate   time.Time   `db:"invoice_date" json:"date"`
	Status        string      `db:"status" json:"status"`
	Total         types.Money `db:"total" json:"total"`
}

// RecentActivity holds the latest invoices of each ledger.
type RecentActivity struct {
	Purchases []RecentInvoice `json:"purchases"`
	Sales     []RecentInvoice `json:"sales"`
}

// MonthlyPoint is one month of purchase and sale volume.
type MonthlyPoint struct {
	Month         string      `db:"month" json:"month"`
	PurchaseCount int         `db:"purchase_count" json:"purchaseCount"`
	Purchases     types.Money `db:"purchases" json:"purchases"`
	SaleCount     int         `db:"sale_count" json:"saleCount"`
	Sales         types.Money `db:"sales" json:"sales"`
}

// StatusCount is the count and summed total of invoices in one status.
type StatusCount struct {
	Status string      `db:"status" json:"status"`
	Count  int         `db:"count" json:"count"`
	Total  types.Money `db:"total" json:"total"`
}

// StatusBreakdown groups invoice counts by status per ledger.
type StatusBreakdown struct {
	Purchases []StatusCount `json:"purchases"`
	Sales     []StatusCount `json:"sales"`
}

// TopParty ranks a supplier or client by invoiced volume.
type TopParty struct {
	PartyID      id.ID       `db:"party_id" json:"partyId"`
	Name         string      `db:"name" json:"name"`
	InvoiceCount int         `db:"invoice_count" json:"invoiceCount"`
	TotalAmount  types.Money `db:"total_amount" json:"totalAmount"`
}

// TopParties holds the highest-volume counterparts of each ledger.
type TopParties struct {
	Suppliers []TopParty `json:"suppliers"`
	Clients   []TopParty `json:"clients"`
}

// Stats is the dashboard overview payload.
type Stats struct {
	Counts     Counts         `json:"counts"`
	Financials Financials     `json:"financials"`
	Recent     RecentActivity `json:"recentActivity"`
}

// Charts is the dashboard chart data payload.
type Charts struct {
	Monthly  []MonthlyPoint  `json:"monthly"`
	Statuses StatusBreakdown `json:"statuses"`
	Top      TopParties      `json:"top"`
}

// Health reports business and system health for the dashboard.
type Health struct {
	Status           string    `json:"status"`
	Database         string    `json:"database"`
	OverdueInvoices  int       `json:"overdueInvoices"`
	LowStockProducts int       `json:"lowStockProducts"`
	Timestamp        time.Time `json:"timestamp"`
}

package postgres

import (
	"context"
	"fmt"

	"facturio/pkg/logger"
)

// schemaDDL creates all tables on first start. Statements are idempotent
// so reruns on an existing database are safe.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		tax_id TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_suppliers_email ON suppliers (LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		tax_id TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_email ON clients (LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS purchase_invoices (
		id UUID PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		invoice_number TEXT NOT NULL UNIQUE,
		supplier_id UUID NOT NULL REFERENCES suppliers (id),
		invoice_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ,
		status TEXT NOT NULL,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_invoices_supplier ON purchase_invoices (supplier_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_invoices_date ON purchase_invoices (invoice_date)`,

	`CREATE TABLE IF NOT EXISTS sale_invoices (
		id UUID PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		invoice_number TEXT NOT NULL UNIQUE,
		client_id UUID NOT NULL REFERENCES clients (id),
		invoice_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ,
		status TEXT NOT NULL,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		based_on_purchase UUID,
		payment_method TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_invoices_client ON sale_invoices (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_invoices_date ON sale_invoices (invoice_date)`,

	// Items belong to either ledger, discriminated by invoice_type.
	// No FK to the invoices: the two ledgers live in separate tables.
	`CREATE TABLE IF NOT EXISTS invoice_items (
		id UUID PRIMARY KEY,
		invoice_id UUID NOT NULL,
		invoice_type TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity NUMERIC(14,3) NOT NULL,
		unit_price NUMERIC(14,2) NOT NULL,
		tax_rate NUMERIC(5,2) NOT NULL,
		line_total NUMERIC(14,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id, invoice_type)`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_items_description ON invoice_items (LOWER(TRIM(description)))`,

	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		description TEXT NOT NULL,
		total_quantity NUMERIC(14,3) NOT NULL DEFAULT 0,
		average_unit_price NUMERIC(14,4) NOT NULL DEFAULT 0,
		last_purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		last_purchase_date TIMESTAMPTZ NOT NULL,
		supplier_id UUID NOT NULL,
		supplier_name TEXT NOT NULL,
		tax_rate NUMERIC(5,2) NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_key ON products (LOWER(TRIM(description)))`,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	logger.Info(ctx, "database schema ensured", "statements", len(schemaDDL))
	return nil
}

package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturio/internal/core/id"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/registers/stock"
	"facturio/internal/infrastructure/storage/postgres"
)

const itemsTable = "invoice_items"

var itemColumns = postgres.ExtractDBColumns[documents.Item]()

// ItemsRepo persists invoice lines for both ledgers.
type ItemsRepo struct {
	txm      *postgres.TxManager
	inserter *postgres.BatchInserter
}

// NewItemsRepo creates a new items repository.
func NewItemsRepo(txm *postgres.TxManager) *ItemsRepo {
	return &ItemsRepo{
		txm:      txm,
		inserter: postgres.NewBatchInserter(txm),
	}
}

func (r *ItemsRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByInvoice returns the items of one invoice in insertion order.
func (r *ItemsRepo) GetByInvoice(ctx context.Context, invoiceID id.ID, invoiceType documents.Type) ([]documents.Item, error) {
	q := r.builder().
		Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID, "invoice_type": invoiceType}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []documents.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// Save bulk-inserts the items via COPY. Requires an open transaction.
func (r *ItemsRepo) Save(ctx context.Context, items []documents.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{
			item.ID,
			item.InvoiceID,
			item.InvoiceType,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.TaxRate,
			item.LineTotal,
			item.CreatedAt,
		})
	}

	if _, err := r.inserter.CopyFromSlice(ctx, itemsTable, itemColumns, rows); err != nil {
		return fmt.Errorf("save items: %w", err)
	}

	return nil
}

// DeleteByInvoice removes all items of one invoice.
func (r *ItemsRepo) DeleteByInvoice(ctx context.Context, invoiceID id.ID, invoiceType documents.Type) error {
	q := r.builder().
		Delete(itemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID, "invoice_type": invoiceType})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	return nil
}

// PurchaseHistoryByDescription returns every purchase line matching the
// description (case-insensitive, trimmed), newest first, with invoice
// number and date joined from the purchase ledger.
func (r *ItemsRepo) PurchaseHistoryByDescription(ctx context.Context, description string) ([]stock.PurchaseRecord, error) {
	query := `
		SELECT i.quantity, i.unit_price, p.invoice_number, p.invoice_date
		FROM invoice_items i
		JOIN purchase_invoices p ON p.id = i.invoice_id
		WHERE i.invoice_type = 'purchase'
		  AND LOWER(TRIM(i.description)) = LOWER(TRIM($1))
		ORDER BY p.invoice_date DESC, i.created_at DESC`

	var records []stock.PurchaseRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, query, description); err != nil {
		return nil, fmt.Errorf("purchase history: %w", err)
	}

	return records, nil
}

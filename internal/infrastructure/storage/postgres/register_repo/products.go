// Package register_repo provides PostgreSQL persistence for the derived
// product ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/domain/registers/stock"
	"facturio/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = postgres.ExtractDBColumns[stock.Product]()

// Compile-time check (PurchaseHistory is delegated).
var _ stock.Repository = (*ProductRepo)(nil)

// PurchaseHistorySource resolves the purchase lines behind a product.
type PurchaseHistorySource interface {
	PurchaseHistoryByDescription(ctx context.Context, description string) ([]stock.PurchaseRecord, error)
}

// ProductRepo implements stock.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	history PurchaseHistorySource
}

// NewProductRepo creates a repository over the products table.
func NewProductRepo(txm *postgres.TxManager, history PurchaseHistorySource) *ProductRepo {
	return &ProductRepo{txm: txm, history: history}
}

func (r *ProductRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByKey retrieves the product whose normalized description equals key.
func (r *ProductRepo) GetByKey(ctx context.Context, key string) (*stock.Product, error) {
	q := r.builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"LOWER(TRIM(description))": key}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p := &stock.Product{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(productsTable, key)
		}
		return nil, fmt.Errorf("get product by key: %w", err)
	}

	return p, nil
}

// Create inserts a new product row.
func (r *ProductRepo) Create(ctx context.Context, p *stock.Product) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(productColumns))
	for _, col := range productColumns {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(productsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// Update persists all reconciled fields with optimistic locking.
func (r *ProductRepo) Update(ctx context.Context, p *stock.Product) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(productColumns))
	for _, col := range productColumns {
		if col == "id" || col == "created_at" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	// Touch() already bumped the in-memory version.
	q := r.builder().
		Update(productsTable).
		SetMap(filteredData).
		Set("version", p.Version).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(productsTable, p.ID)
	}

	return nil
}

// UpdateQuantity persists the quantity only, leaving price fields alone.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, productID id.ID, quantity decimal.Decimal) error {
	q := r.builder().
		Update(productsTable).
		Set("total_quantity", quantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// Delete removes the product row.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder().
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// List returns products ordered by description.
func (r *ProductRepo) List(ctx context.Context, filter stock.ListFilter) ([]*stock.Product, error) {
	q := r.builder().
		Select(productColumns...).
		From(productsTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"supplier_name": pattern},
		})
	}

	if filter.LowStock {
		q = q.Where(squirrel.LtOrEq{"total_quantity": filter.Threshold})
	}

	q = q.OrderBy("description ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*stock.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// PurchaseHistory is joined from the purchase ledger, not stored here.
func (r *ProductRepo) PurchaseHistory(ctx context.Context, description string) ([]stock.PurchaseRecord, error) {
	return r.history.PurchaseHistoryByDescription(ctx, description)
}

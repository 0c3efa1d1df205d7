// Package document_repo provides PostgreSQL implementations for the
// invoice repositories. Purchase and sale ledgers share one base repo
// pointed at different tables.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/domain"
	"facturio/internal/infrastructure/storage/postgres"
)

// baseInvoiceRepo implements the invoice CRUD shared by both ledgers.
// The counterpart name (supplier or client) is joined on every read.
type baseInvoiceRepo[T any] struct {
	txm          *postgres.TxManager
	table        string
	partyTable   string
	partyFK      string // e.g. "supplier_id"
	partyNameCol string // e.g. "supplier_name", joined, not stored
	cols         []string
	newFn        func() T
}

func newBaseInvoiceRepo[T any](
	txm *postgres.TxManager,
	table, partyTable, partyFK, partyNameCol string,
	cols []string,
	newFn func() T,
) *baseInvoiceRepo[T] {
	return &baseInvoiceRepo[T]{
		txm:          txm,
		table:        table,
		partyTable:   partyTable,
		partyFK:      partyFK,
		partyNameCol: partyNameCol,
		cols:         cols,
		newFn:        newFn,
	}
}

func (r *baseInvoiceRepo[T]) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseInvoiceRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// storedCols are the columns that physically exist on the table.
func (r *baseInvoiceRepo[T]) storedCols() []string {
	out := make([]string, 0, len(r.cols))
	for _, col := range r.cols {
		if col == r.partyNameCol {
			continue
		}
		out = append(out, col)
	}
	return out
}

// joinedSelect selects the invoice with the counterpart name joined.
func (r *baseInvoiceRepo[T]) joinedSelect() squirrel.SelectBuilder {
	selectCols := make([]string, 0, len(r.cols))
	for _, col := range r.storedCols() {
		selectCols = append(selectCols, "d."+col)
	}
	selectCols = append(selectCols, "party.name AS "+r.partyNameCol)

	return r.builder().
		Select(selectCols...).
		From(r.table + " d").
		Join(fmt.Sprintf("%s party ON party.id = d.%s", r.partyTable, r.partyFK))
}

// Create inserts a new invoice header.
func (r *baseInvoiceRepo[T]) Create(ctx context.Context, inv T) error {
	data := postgres.StructToMap(inv)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(data))
	for _, col := range r.storedCols() {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(r.table).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}

	return nil
}

// GetByID retrieves the invoice header with the counterpart name.
func (r *baseInvoiceRepo[T]) GetByID(ctx context.Context, invoiceID id.ID) (T, error) {
	inv := r.newFn()

	q := r.joinedSelect().
		Where(squirrel.Eq{"d.id": invoiceID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return inv, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return inv, apperror.NewNotFound(r.table, invoiceID.String())
		}
		return inv, fmt.Errorf("get by id: %w", err)
	}

	return inv, nil
}

// FindByNumber retrieves the invoice by its number.
func (r *baseInvoiceRepo[T]) FindByNumber(ctx context.Context, number string) (T, error) {
	inv := r.newFn()

	q := r.joinedSelect().
		Where(squirrel.Eq{"d.invoice_number": number}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return inv, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return inv, apperror.NewNotFound(r.table, number)
		}
		return inv, fmt.Errorf("find by number: %w", err)
	}

	return inv, nil
}

// Update persists header fields with optimistic locking.
func (r *baseInvoiceRepo[T]) Update(ctx context.Context, inv T) error {
	data := postgres.StructToMap(inv)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filteredData := make(map[string]any, len(data))
	for _, col := range r.storedCols() {
		if col == "id" || col == "created_at" {
			continue
		}
		if col == "version" {
			continue // managed by repo (optimistic locking)
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(r.table).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.table, entityID)
	}

	return nil
}

// Delete removes the invoice header.
func (r *baseInvoiceRepo[T]) Delete(ctx context.Context, invoiceID id.ID) error {
	q := r.builder().
		Delete(r.table).
		Where(squirrel.Eq{"id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute delete %s: %w", r.table, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table, invoiceID.String())
	}

	return nil
}

// List retrieves invoices, searchable by number and counterpart name,
// filterable by status, newest first by default.
func (r *baseInvoiceRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"d.invoice_number": pattern},
			squirrel.ILike{"party.name": pattern},
		})
	}

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"d.status": filter.Status})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// orderable maps exposed sort fields to qualified columns.
var orderable = map[string]string{
	"invoice_number": "d.invoice_number",
	"invoice_date":   "d.invoice_date",
	"due_date":       "d.due_date",
	"status":         "d.status",
	"total":          "d.total",
	"created_at":     "d.created_at",
}

func (r *baseInvoiceRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "d.created_at DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	col, ok := orderable[strings.TrimSpace(field)]
	if !ok {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy)
	}

	return col + " " + direction, nil
}

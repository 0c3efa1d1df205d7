package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturio/internal/domain/parties"
	"facturio/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ parties.Repository = (*PartyRepo)(nil)

// PartyRepo implements parties.Repository over one party table.
// Suppliers and clients share the same shape, so the same repo serves
// both, pointed at different tables.
type PartyRepo struct {
	*BaseRepo[*parties.Party]
}

func newPartyRepo(txm *postgres.TxManager, table string) *PartyRepo {
	return &PartyRepo{
		BaseRepo: NewBaseRepo(
			txm,
			table,
			postgres.ExtractDBColumns[parties.Party](),
			[]string{"name", "email"},
			func() *parties.Party { return &parties.Party{} },
		),
	}
}

// NewSupplierRepo creates a repository over the suppliers table.
func NewSupplierRepo(txm *postgres.TxManager) *PartyRepo {
	return newPartyRepo(txm, "suppliers")
}

// NewClientRepo creates a repository over the clients table.
func NewClientRepo(txm *postgres.TxManager) *PartyRepo {
	return newPartyRepo(txm, "clients")
}

// FindByEmail retrieves a party by email, case-insensitive.
func (r *PartyRepo) FindByEmail(ctx context.Context, email string) (*parties.Party, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"LOWER(email)": strings.ToLower(email)}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// ListSlim returns id/name/email only, ordered by name.
func (r *PartyRepo) ListSlim(ctx context.Context) ([]*parties.SlimParty, error) {
	q := r.Builder().
		Select("id", "name", "email").
		From(r.tableName).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*parties.SlimParty
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list slim %s: %w", r.tableName, err)
	}

	return items, nil
}

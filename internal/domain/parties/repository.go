package parties

import (
	"context"

	"facturio/internal/core/id"
	"facturio/internal/domain"
)

// Repository defines persistence operations for one party catalog
// (one instance per table: suppliers or clients).
type Repository interface {
	Create(ctx context.Context, p *Party) error

	GetByID(ctx context.Context, partyID id.ID) (*Party, error)

	// FindByEmail retrieves a party by exact email. Returns NotFound
	// when no record matches.
	FindByEmail(ctx context.Context, email string) (*Party, error)

	// Update modifies an existing party (with optimistic locking).
	Update(ctx context.Context, p *Party) error

	// Delete removes the party. Fails with Conflict when the party is
	// still referenced by invoices.
	Delete(ctx context.Context, partyID id.ID) error

	Exists(ctx context.Context, partyID id.ID) (bool, error)

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error)

	// ListSlim returns id/name/email only, ordered by name, for select boxes.
	ListSlim(ctx context.Context) ([]*SlimParty, error)
}

// SlimParty is the reduced listing used by select boxes.
type SlimParty struct {
	ID    id.ID  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

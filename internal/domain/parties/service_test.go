package parties

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/domain"
)

type fakeRepo struct {
	byEmail map[string]*Party
	created []*Party
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*Party)}
}

func (f *fakeRepo) Create(ctx context.Context, p *Party) error {
	f.created = append(f.created, p)
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	for _, p := range f.byEmail {
		if p.ID == partyID {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("supplier", partyID.String())
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*Party, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("supplier", email)
}

func (f *fakeRepo) Update(ctx context.Context, p *Party) error {
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, partyID id.ID) error { return nil }

func (f *fakeRepo) Exists(ctx context.Context, partyID id.ID) (bool, error) { return true, nil }

func (f *fakeRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error) {
	return domain.ListResult[*Party]{}, nil
}

func (f *fakeRepo) ListSlim(ctx context.Context) ([]*SlimParty, error) { return nil, nil }

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid party is persisted", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, KindSupplier)

		p := NewParty("Acme SARL", "contact@acme.fr", "+33 1 23 45 67 89", "1 rue de la Paix, Paris")
		require.NoError(t, svc.Create(ctx, p))
		require.Len(t, repo.created, 1)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, KindClient)

		first := NewParty("Acme SARL", "contact@acme.fr", "+33 1 23 45 67 89", "1 rue de la Paix, Paris")
		require.NoError(t, svc.Create(ctx, first))

		second := NewParty("Other", "contact@acme.fr", "+33 1 00 00 00 00", "2 rue Autre, Lyon")
		err := svc.Create(ctx, second)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	})

	t.Run("updating own record keeps its email", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, KindSupplier)

		p := NewParty("Acme SARL", "contact@acme.fr", "+33 1 23 45 67 89", "1 rue de la Paix, Paris")
		require.NoError(t, svc.Create(ctx, p))

		p.Name = "Acme SAS"
		require.NoError(t, svc.Update(ctx, p))
	})
}

func TestPartyValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		party *Party
		field string
	}{
		{"missing name", NewParty("", "a@b.fr", "0600000000", "addr"), "name"},
		{"missing email", NewParty("A", "", "0600000000", "addr"), "email"},
		{"bad email", NewParty("A", "not-an-email", "0600000000", "addr"), "email"},
		{"missing phone", NewParty("A", "a@b.fr", "", "addr"), "phone"},
		{"missing address", NewParty("A", "a@b.fr", "0600000000", ""), "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.party.Validate(ctx)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
	"facturio/internal/domain"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/parties"
	"facturio/internal/domain/registers/stock"
)

type fakeRepo struct {
	byID     map[id.ID]*Invoice
	byNumber map[string]*Invoice
	items    map[id.ID][]documents.Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:     make(map[id.ID]*Invoice),
		byNumber: make(map[string]*Invoice),
		items:    make(map[id.ID][]documents.Item),
	}
}

func (f *fakeRepo) Create(ctx context.Context, inv *Invoice) error {
	f.byID[inv.ID] = inv
	f.byNumber[inv.InvoiceNumber] = inv
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	if inv, ok := f.byID[invoiceID]; ok {
		return inv, nil
	}
	return nil, apperror.NewNotFound("purchase invoice", invoiceID.String())
}

func (f *fakeRepo) FindByNumber(ctx context.Context, number string) (*Invoice, error) {
	if inv, ok := f.byNumber[number]; ok {
		return inv, nil
	}
	return nil, apperror.NewNotFound("purchase invoice", number)
}

func (f *fakeRepo) Update(ctx context.Context, inv *Invoice) error {
	f.byID[inv.ID] = inv
	f.byNumber[inv.InvoiceNumber] = inv
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	if inv, ok := f.byID[invoiceID]; ok {
		delete(f.byNumber, inv.InvoiceNumber)
		delete(f.byID, invoiceID)
	}
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error) {
	var out []*Invoice
	for _, inv := range f.byID {
		out = append(out, inv)
	}
	return domain.ListResult[*Invoice]{Items: out, TotalCount: int64(len(out))}, nil
}

func (f *fakeRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]documents.Item, error) {
	return f.items[invoiceID], nil
}

func (f *fakeRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []documents.Item) error {
	f.items[invoiceID] = items
	return nil
}

func (f *fakeRepo) DeleteItems(ctx context.Context, invoiceID id.ID) error {
	delete(f.items, invoiceID)
	return nil
}

type fakeSuppliers struct {
	party *parties.Party
}

func (f *fakeSuppliers) GetByID(ctx context.Context, partyID id.ID) (*parties.Party, error) {
	if f.party != nil && f.party.ID == partyID {
		return f.party, nil
	}
	return nil, apperror.NewNotFound("supplier", partyID.String())
}

type fakeReconciler struct {
	created  [][]stock.PurchaseLine
	deleted  [][]stock.ReversalLine
	warnings []stock.ItemFailure
}

func (f *fakeReconciler) OnPurchaseCreated(ctx context.Context, lines []stock.PurchaseLine) []stock.ItemFailure {
	f.created = append(f.created, lines)
	return f.warnings
}

func (f *fakeReconciler) OnPurchaseDeleted(ctx context.Context, lines []stock.ReversalLine) []stock.ItemFailure {
	f.deleted = append(f.deleted, lines)
	return f.warnings
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func supplier() *parties.Party {
	p := parties.NewParty("Fournitures Dupont", "contact@dupont.fr", "+33 1 23 45 67 89", "12 rue de la Paix, Paris")
	return p
}

func item(desc, qty, price, rate string) documents.Item {
	return documents.NewItem(desc,
		decimal.RequireFromString(qty),
		types.MustMoney(price),
		types.MustMoney(rate))
}

func testService() (*Service, *fakeRepo, *fakeSuppliers, *fakeReconciler) {
	repo := newFakeRepo()
	sup := &fakeSuppliers{party: supplier()}
	rec := &fakeReconciler{}
	return NewService(repo, sup, rec, fakeTx{}), repo, sup, rec
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("computes totals and reconciles stock", func(t *testing.T) {
		svc, repo, sup, rec := testService()

		inv := NewInvoice("FA-2024-001", sup.party.ID, date)
		inv.Items = []documents.Item{
			item("Widget", "10", "5.00", "20"),
			item("Gadget", "2", "25.00", "10"),
		}

		warnings, err := svc.Create(ctx, inv)
		require.NoError(t, err)
		assert.Empty(t, warnings)

		assert.Equal(t, "100", inv.Subtotal.String())
		assert.Equal(t, "15", inv.TaxAmount.String())
		assert.Equal(t, "115", inv.Total.String())
		assert.Equal(t, sup.party.Name, inv.SupplierName)

		require.Len(t, rec.created, 1)
		require.Len(t, rec.created[0], 2)
		assert.Equal(t, sup.party.Name, rec.created[0][0].SupplierName)
		assert.Equal(t, date, rec.created[0][0].Date)

		stored, err := repo.GetItems(ctx, inv.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
		assert.Equal(t, documents.TypePurchase, stored[0].InvoiceType)
	})

	t.Run("reconciliation warnings do not fail the invoice", func(t *testing.T) {
		svc, repo, sup, rec := testService()
		rec.warnings = []stock.ItemFailure{{LineNo: 1, Description: "Widget", Message: "boom"}}

		inv := NewInvoice("FA-2024-002", sup.party.ID, date)
		inv.Items = []documents.Item{item("Widget", "1", "5.00", "20")}

		warnings, err := svc.Create(ctx, inv)
		require.NoError(t, err)
		assert.Len(t, warnings, 1)

		_, err = repo.GetByID(ctx, inv.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		svc, _, _, _ := testService()

		inv := NewInvoice("FA-2024-003", id.New(), date)
		inv.Items = []documents.Item{item("Widget", "1", "5.00", "20")}

		_, err := svc.Create(ctx, inv)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("duplicate invoice number", func(t *testing.T) {
		svc, _, sup, _ := testService()

		first := NewInvoice("FA-2024-004", sup.party.ID, date)
		first.Items = []documents.Item{item("Widget", "1", "5.00", "20")}
		_, err := svc.Create(ctx, first)
		require.NoError(t, err)

		second := NewInvoice("FA-2024-004", sup.party.ID, date)
		second.Items = []documents.Item{item("Gadget", "1", "5.00", "20")}
		_, err = svc.Create(ctx, second)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	})

	t.Run("invalid item rejects the invoice before persisting", func(t *testing.T) {
		svc, repo, sup, rec := testService()

		inv := NewInvoice("FA-2024-005", sup.party.ID, date)
		inv.Items = []documents.Item{item("Widget", "-1", "5.00", "20")}

		_, err := svc.Create(ctx, inv)
		require.Error(t, err)
		assert.Empty(t, repo.byID)
		assert.Empty(t, rec.created)
	})

	t.Run("empty items produce zero totals", func(t *testing.T) {
		svc, _, sup, _ := testService()

		inv := NewInvoice("FA-2024-006", sup.party.ID, date)

		warnings, err := svc.Create(ctx, inv)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.True(t, inv.Total.IsZero())
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("header update bumps version and skips the ledger", func(t *testing.T) {
		svc, _, sup, rec := testService()

		inv := NewInvoice("FA-2024-001", sup.party.ID, date)
		inv.Items = []documents.Item{item("Widget", "1", "5.00", "20")}
		_, err := svc.Create(ctx, inv)
		require.NoError(t, err)
		rec.created = nil

		inv.Status = StatusPaid
		require.NoError(t, svc.Update(ctx, inv))

		assert.Equal(t, 2, inv.Version)
		assert.Empty(t, rec.created)
	})

	t.Run("keeping own number is not a duplicate", func(t *testing.T) {
		svc, _, sup, _ := testService()

		inv := NewInvoice("FA-2024-001", sup.party.ID, date)
		_, err := svc.Create(ctx, inv)
		require.NoError(t, err)

		inv.Notes = "settled by bank transfer"
		assert.NoError(t, svc.Update(ctx, inv))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("reverses stock and removes invoice with items", func(t *testing.T) {
		svc, repo, sup, rec := testService()

		inv := NewInvoice("FA-2024-001", sup.party.ID, date)
		inv.Items = []documents.Item{item("Widget", "10", "5.00", "20")}
		_, err := svc.Create(ctx, inv)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, inv.ID))

		require.Len(t, rec.deleted, 1)
		assert.Equal(t, "Widget", rec.deleted[0][0].Description)

		_, err = repo.GetByID(ctx, inv.ID)
		assert.True(t, apperror.IsNotFound(err))
		assert.Empty(t, repo.items[inv.ID])
	})

	t.Run("unknown invoice", func(t *testing.T) {
		svc, _, _, _ := testService()
		err := svc.Delete(ctx, id.New())
		assert.True(t, apperror.IsNotFound(err))
	})
}

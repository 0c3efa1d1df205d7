package sale

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
	return nil, apperror.NewNotFound("sale invoice", invoiceID.String())
}

func (f *fakeRepo) FindByNumber(ctx context.Context, number string) (*Invoice, error) {
	if inv, ok := f.byNumber[number]; ok {
		return inv, nil
	}
	return nil, apperror.NewNotFound("sale invoice", number)
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

type fakeClients struct {
	known map[id.ID]bool
}

func (f *fakeClients) Exists(ctx context.Context, partyID id.ID) (bool, error) {
	return f.known[partyID], nil
}

type fakeReconciler struct {
	deleted [][]stock.ReversalLine
}

func (f *fakeReconciler) OnSaleDeleted(ctx context.Context, lines []stock.ReversalLine) []stock.ItemFailure {
	f.deleted = append(f.deleted, lines)
	return nil
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func item(desc, qty, price, rate string) documents.Item {
	return documents.NewItem(desc,
		decimal.RequireFromString(qty),
		types.MustMoney(price),
		types.MustMoney(rate))
}

func testService() (*Service, *fakeRepo, id.ID, *fakeReconciler) {
	repo := newFakeRepo()
	clientID := id.New()
	clients := &fakeClients{known: map[id.ID]bool{clientID: true}}
	rec := &fakeReconciler{}
	return NewService(repo, clients, rec, fakeTx{}), repo, clientID, rec
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("computes totals and defaults to draft", func(t *testing.T) {
		svc, repo, clientID, _ := testService()

		inv := NewInvoice("FV-2024-001", clientID, date)
		inv.Status = ""
		inv.PaymentMethod = "bank transfer"
		inv.Items = []documents.Item{item("Widget", "4", "12.50", "20")}

		require.NoError(t, svc.Create(ctx, inv))

		assert.Equal(t, StatusDraft, inv.Status)
		assert.Equal(t, "50", inv.Subtotal.String())
		assert.Equal(t, "10", inv.TaxAmount.String())
		assert.Equal(t, "60", inv.Total.String())

		stored, err := repo.GetItems(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, documents.TypeSale, stored[0].InvoiceType)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc, _, _, _ := testService()

		inv := NewInvoice("FV-2024-002", id.New(), date)
		err := svc.Create(ctx, inv)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("duplicate invoice number", func(t *testing.T) {
		svc, _, clientID, _ := testService()

		require.NoError(t, svc.Create(ctx, NewInvoice("FV-2024-003", clientID, date)))

		err := svc.Create(ctx, NewInvoice("FV-2024-003", clientID, date))
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	})

	t.Run("resale link is kept", func(t *testing.T) {
		svc, repo, clientID, _ := testService()

		purchaseID := id.New()
		inv := NewInvoice("FV-2024-004", clientID, date)
		inv.BasedOnPurchase = &purchaseID

		require.NoError(t, svc.Create(ctx, inv))

		stored, err := repo.GetByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.BasedOnPurchase)
		assert.Equal(t, purchaseID, *stored.BasedOnPurchase)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	svc, _, clientID, _ := testService()

	inv := NewInvoice("FV-2024-001", clientID, date)
	require.NoError(t, svc.Create(ctx, inv))

	inv.Status = StatusSent
	require.NoError(t, svc.Update(ctx, inv))
	assert.Equal(t, 2, inv.Version)

	inv.Status = Status("cancelled")
	err := svc.Update(ctx, inv)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("restores sold quantities", func(t *testing.T) {
		svc, repo, clientID, rec := testService()

		inv := NewInvoice("FV-2024-001", clientID, date)
		inv.Items = []documents.Item{item("Widget", "4", "12.50", "20")}
		require.NoError(t, svc.Create(ctx, inv))

		require.NoError(t, svc.Delete(ctx, inv.ID))

		require.Len(t, rec.deleted, 1)
		require.Len(t, rec.deleted[0], 1)
		assert.Equal(t, "Widget", rec.deleted[0][0].Description)
		assert.Equal(t, "4", rec.deleted[0][0].Quantity.String())

		_, err := repo.GetByID(ctx, inv.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		svc, _, _, _ := testService()
		err := svc.Delete(ctx, id.New())
		assert.True(t, apperror.IsNotFound(err))
	})
}

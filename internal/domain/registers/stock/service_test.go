package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
)

// memRepo is an in-memory ledger keyed by normalized description.
type memRepo struct {
	products map[string]*Product
	failOn   map[string]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: make(map[string]*Product),
		failOn:   make(map[string]error),
	}
}

func (m *memRepo) GetByKey(ctx context.Context, key string) (*Product, error) {
	if err := m.failOn[key]; err != nil {
		return nil, err
	}
	if p, ok := m.products[key]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", key)
}

func (m *memRepo) Create(ctx context.Context, p *Product) error {
	m.products[NormalizeKey(p.Description)] = p
	return nil
}

func (m *memRepo) Update(ctx context.Context, p *Product) error {
	m.products[NormalizeKey(p.Description)] = p
	return nil
}

func (m *memRepo) UpdateQuantity(ctx context.Context, productID id.ID, quantity decimal.Decimal) error {
	for _, p := range m.products {
		if p.ID == productID {
			p.TotalQuantity = quantity
			return nil
		}
	}
	return apperror.NewNotFound("product", productID.String())
}

func (m *memRepo) Delete(ctx context.Context, productID id.ID) error {
	for key, p := range m.products {
		if p.ID == productID {
			delete(m.products, key)
			return nil
		}
	}
	return apperror.NewNotFound("product", productID.String())
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	var out []*Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) PurchaseHistory(ctx context.Context, description string) ([]PurchaseRecord, error) {
	return nil, nil
}

func line(desc, qty, price string) PurchaseLine {
	return PurchaseLine{
		Description:  desc,
		Quantity:     decimal.RequireFromString(qty),
		UnitPrice:    types.MustMoney(price),
		TaxRate:      types.MustMoney("20"),
		SupplierID:   id.New(),
		SupplierName: "Fournitures Dupont",
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOnPurchaseCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then merges case-insensitively", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)

		warnings := svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "10", "5.00")})
		require.Empty(t, warnings)

		warnings = svc.OnPurchaseCreated(ctx, []PurchaseLine{line("  widget ", "5", "8.00")})
		require.Empty(t, warnings)

		require.Len(t, repo.products, 1)
		p := repo.products["widget"]
		assert.Equal(t, "15", p.TotalQuantity.String())
		assert.Equal(t, "6", p.AverageUnitPrice.String())
	})

	t.Run("failing item does not stop the rest", func(t *testing.T) {
		repo := newMemRepo()
		repo.failOn["broken"] = errors.New("connection reset")
		svc := NewService(repo)

		warnings := svc.OnPurchaseCreated(ctx, []PurchaseLine{
			line("Widget", "1", "5.00"),
			line("Broken", "1", "5.00"),
			line("Gadget", "1", "5.00"),
		})

		require.Len(t, warnings, 1)
		assert.Equal(t, 2, warnings[0].LineNo)
		assert.Equal(t, "Broken", warnings[0].Description)
		assert.Contains(t, warnings[0].Message, "connection reset")

		assert.Contains(t, repo.products, "widget")
		assert.Contains(t, repo.products, "gadget")
	})
}

func TestOnPurchaseDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("missing product is skipped", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)

		warnings := svc.OnPurchaseDeleted(ctx, []ReversalLine{
			{Description: "Ghost", Quantity: decimal.RequireFromString("3")},
		})
		assert.Empty(t, warnings)
	})

	t.Run("zero quantity removes the row", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)
		svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "10", "5.00")})

		warnings := svc.OnPurchaseDeleted(ctx, []ReversalLine{
			{Description: "widget", Quantity: decimal.RequireFromString("10")},
		})

		assert.Empty(t, warnings)
		assert.NotContains(t, repo.products, "widget")
	})

	t.Run("partial reversal touches quantity only", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)
		svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "10", "5.00")})
		svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "5", "8.00")})

		warnings := svc.OnPurchaseDeleted(ctx, []ReversalLine{
			{Description: "Widget", Quantity: decimal.RequireFromString("5")},
		})

		assert.Empty(t, warnings)
		p := repo.products["widget"]
		assert.Equal(t, "10", p.TotalQuantity.String())
		assert.Equal(t, "6", p.AverageUnitPrice.String())
		assert.Equal(t, "8", p.LastPurchasePrice.String())
	})
}

func TestOnSaleEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("sale creation never moves the ledger", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)
		svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "10", "5.00")})

		warnings := svc.OnSaleCreated(ctx, []PurchaseLine{line("Widget", "4", "12.00")})

		assert.Empty(t, warnings)
		assert.Equal(t, "10", repo.products["widget"].TotalQuantity.String())
	})

	t.Run("sale deletion restores existing products only", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo)
		svc.OnPurchaseCreated(ctx, []PurchaseLine{line("Widget", "10", "5.00")})

		warnings := svc.OnSaleDeleted(ctx, []ReversalLine{
			{Description: "Widget", Quantity: decimal.RequireFromString("4")},
			{Description: "Unknown", Quantity: decimal.RequireFromString("2")},
		})

		assert.Empty(t, warnings)
		assert.Equal(t, "14", repo.products["widget"].TotalQuantity.String())
		assert.NotContains(t, repo.products, "unknown")
	})
}

package stock

import (
	"context"
	"sync"

	"facturio/internal/core/apperror"
	"facturio/pkg/logger"
)

// ItemFailure describes one item whose reconciliation failed. Failures
// are warnings: the invoice itself is already committed.
type ItemFailure struct {
	LineNo      int    `json:"lineNo"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

// Service is the stock reconciliation engine. It applies invoice events
// to the product ledger, item by item, best-effort: a failing item is
// recorded and the remaining items are still processed.
//
// Read-modify-write cycles on the same product key are serialized with
// a per-key mutex so concurrent invoices cannot lose updates.
type Service struct {
	repo Repository

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

// NewService creates a new reconciliation service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		keys: make(map[string]*sync.Mutex),
	}
}

// lockKey serializes access to one product key. Returns the unlock func.
func (s *Service) lockKey(key string) func() {
	s.mu.Lock()
	km, ok := s.keys[key]
	if !ok {
		km = &sync.Mutex{}
		s.keys[key] = km
	}
	s.mu.Unlock()

	km.Lock()
	return km.Unlock
}

// OnPurchaseCreated folds every purchased line into the product ledger.
// New descriptions create products; known descriptions accumulate
// quantity and re-weight the average price.
func (s *Service) OnPurchaseCreated(ctx context.Context, lines []PurchaseLine) []ItemFailure {
	var failures []ItemFailure

	for i, line := range lines {
		if err := s.applyPurchaseLine(ctx, line); err != nil {
			logger.Warn(ctx, "stock reconciliation failed for item",
				"description", line.Description,
				"lineNo", i+1,
				"error", err)
			failures = append(failures, ItemFailure{
				LineNo:      i + 1,
				Description: line.Description,
				Message:     err.Error(),
			})
		}
	}

	return failures
}

func (s *Service) applyPurchaseLine(ctx context.Context, line PurchaseLine) error {
	key := NormalizeKey(line.Description)
	unlock := s.lockKey(key)
	defer unlock()

	existing, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return s.repo.Create(ctx, NewProduct(line))
		}
		return err
	}

	MergePurchase(existing, line)
	existing.Touch()
	return s.repo.Update(ctx, existing)
}

// OnPurchaseDeleted reverses the purchased quantities. Items whose
// product no longer exists are skipped; a product driven to exactly
// zero is removed from the ledger. Price fields are never recomputed.
func (s *Service) OnPurchaseDeleted(ctx context.Context, lines []ReversalLine) []ItemFailure {
	var failures []ItemFailure

	for i, line := range lines {
		if err := s.reversePurchaseLine(ctx, line); err != nil {
			logger.Warn(ctx, "stock reversal failed for item",
				"description", line.Description,
				"lineNo", i+1,
				"error", err)
			failures = append(failures, ItemFailure{
				LineNo:      i + 1,
				Description: line.Description,
				Message:     err.Error(),
			})
		}
	}

	return failures
}

func (s *Service) reversePurchaseLine(ctx context.Context, line ReversalLine) error {
	key := NormalizeKey(line.Description)
	unlock := s.lockKey(key)
	defer unlock()

	existing, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Product already gone; nothing to reverse.
			return nil
		}
		return err
	}

	if remove := ReducePurchaseDeletion(existing, line.Quantity); remove {
		logger.Info(ctx, "product depleted by purchase deletion, removing",
			"description", existing.Description,
			"product_id", existing.ID)
		return s.repo.Delete(ctx, existing.ID)
	}

	return s.repo.UpdateQuantity(ctx, existing.ID, existing.TotalQuantity)
}

// OnSaleCreated records a sale. Sales do not move the product ledger:
// stock decrements on sale are intentionally not tracked.
func (s *Service) OnSaleCreated(ctx context.Context, lines []PurchaseLine) []ItemFailure {
	return nil
}

// OnSaleDeleted restores sold quantities for products that still exist.
// Unknown descriptions are skipped, never created.
func (s *Service) OnSaleDeleted(ctx context.Context, lines []ReversalLine) []ItemFailure {
	var failures []ItemFailure

	for i, line := range lines {
		if err := s.restoreSaleLine(ctx, line); err != nil {
			logger.Warn(ctx, "stock restore failed for item",
				"description", line.Description,
				"lineNo", i+1,
				"error", err)
			failures = append(failures, ItemFailure{
				LineNo:      i + 1,
				Description: line.Description,
				Message:     err.Error(),
			})
		}
	}

	return failures
}

func (s *Service) restoreSaleLine(ctx context.Context, line ReversalLine) error {
	key := NormalizeKey(line.Description)
	unlock := s.lockKey(key)
	defer unlock()

	existing, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}

	ApplySaleReturn(existing, line.Quantity)
	return s.repo.UpdateQuantity(ctx, existing.ID, existing.TotalQuantity)
}

// ListProducts returns the ledger with purchase history attached.
func (s *Service) ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		history, err := s.repo.PurchaseHistory(ctx, p.Description)
		if err != nil {
			logger.Warn(ctx, "purchase history unavailable",
				"description", p.Description,
				"error", err)
			continue
		}
		p.Purchases = history
	}

	return products, nil
}

package purchase

import (
	"context"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/core/tx"
	"facturio/internal/domain"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/parties"
	"facturio/internal/domain/registers/stock"
	"facturio/pkg/logger"
)

// SupplierDirectory resolves suppliers referenced by invoices.
type SupplierDirectory interface {
	GetByID(ctx context.Context, partyID id.ID) (*parties.Party, error)
}

// Reconciler applies purchase events to the product ledger.
type Reconciler interface {
	OnPurchaseCreated(ctx context.Context, lines []stock.PurchaseLine) []stock.ItemFailure
	OnPurchaseDeleted(ctx context.Context, lines []stock.ReversalLine) []stock.ItemFailure
}

// Service implements purchase invoice business logic.
type Service struct {
	repo       Repository
	suppliers  SupplierDirectory
	reconciler Reconciler
	txManager  tx.Manager
}

// NewService creates a new purchase invoice service.
func NewService(repo Repository, suppliers SupplierDirectory, reconciler Reconciler, txManager tx.Manager) *Service {
	return &Service{
		repo:       repo,
		suppliers:  suppliers,
		reconciler: reconciler,
		txManager:  txManager,
	}
}

// Create validates and persists a purchase invoice with its items, then
// folds the items into the product ledger. Reconciliation runs after
// the invoice is committed: its failures come back as warnings and
// never roll the invoice back.
func (s *Service) Create(ctx context.Context, inv *Invoice) ([]stock.ItemFailure, error) {
	if inv.Status == "" {
		inv.Status = StatusPending
	}

	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.GetByID(ctx, inv.SupplierID)
	if err != nil {
		return nil, err
	}

	totals, err := documents.CalculateTotals(inv.Items)
	if err != nil {
		return nil, err
	}
	inv.ApplyTotals(totals)

	if err := s.checkNumberUnique(ctx, inv.InvoiceNumber, id.Nil()); err != nil {
		return nil, err
	}

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].InvoiceType = documents.TypePurchase
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inv); err != nil {
			return err
		}
		return s.repo.SaveItems(ctx, inv.ID, inv.Items)
	})
	if err != nil {
		return nil, err
	}

	warnings := s.reconciler.OnPurchaseCreated(ctx, s.purchaseLines(supplier, inv))

	logger.Info(ctx, "purchase invoice created",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"supplier_id", inv.SupplierID,
		"total", inv.Total,
		"warnings", len(warnings))

	inv.SupplierName = supplier.Name
	return warnings, nil
}

// GetByID retrieves a purchase invoice with its items.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return inv, nil
}

// Update persists header changes: status, dates, notes. Items and
// amounts are immutable, so the ledger stays untouched.
func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	if err := inv.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkNumberUnique(ctx, inv.InvoiceNumber, inv.ID); err != nil {
		return err
	}

	inv.Touch()
	if err := s.repo.Update(ctx, inv); err != nil {
		return err
	}

	logger.Info(ctx, "purchase invoice updated",
		"invoice_id", inv.ID,
		"status", inv.Status,
		"version", inv.Version)
	return nil
}

// Delete reverses the invoice's effect on the ledger, then removes the
// invoice and its items. Ledger reversal is best-effort: products
// already gone are skipped.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	inv, err := s.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	warnings := s.reconciler.OnPurchaseDeleted(ctx, reversalLines(inv.Items))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteItems(ctx, invoiceID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, invoiceID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase invoice deleted",
		"invoice_id", invoiceID,
		"invoice_number", inv.InvoiceNumber,
		"warnings", len(warnings))
	return nil
}

// List returns purchase invoices matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) checkNumberUnique(ctx context.Context, number string, excludeID id.ID) error {
	existing, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return apperror.NewDuplicate("purchase invoice", "invoiceNumber", number)
	}
	return nil
}

func (s *Service) purchaseLines(supplier *parties.Party, inv *Invoice) []stock.PurchaseLine {
	lines := make([]stock.PurchaseLine, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, stock.PurchaseLine{
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TaxRate:      item.TaxRate,
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			Date:         inv.InvoiceDate,
		})
	}
	return lines
}

func reversalLines(items []documents.Item) []stock.ReversalLine {
	lines := make([]stock.ReversalLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, stock.ReversalLine{
			Description: item.Description,
			Quantity:    item.Quantity,
		})
	}
	return lines
}

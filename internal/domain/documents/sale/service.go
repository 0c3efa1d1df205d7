package sale

import (
	"context"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/core/tx"
	"facturio/internal/domain"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/registers/stock"
	"facturio/pkg/logger"
)

// ClientDirectory resolves clients referenced by invoices.
type ClientDirectory interface {
	Exists(ctx context.Context, partyID id.ID) (bool, error)
}

// Reconciler applies sale events to the product ledger.
type Reconciler interface {
	OnSaleDeleted(ctx context.Context, lines []stock.ReversalLine) []stock.ItemFailure
}

// Service implements sale invoice business logic.
//
// Selling does not decrement the product ledger; deleting a sale
// restores the sold quantities for products that still exist.
type Service struct {
	repo       Repository
	clients    ClientDirectory
	reconciler Reconciler
	txManager  tx.Manager
}

// NewService creates a new sale invoice service.
func NewService(repo Repository, clients ClientDirectory, reconciler Reconciler, txManager tx.Manager) *Service {
	return &Service{
		repo:       repo,
		clients:    clients,
		reconciler: reconciler,
		txManager:  txManager,
	}
}

// Create validates and persists a sale invoice with its items.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if inv.Status == "" {
		inv.Status = StatusDraft
	}

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.clients.Exists(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("client", inv.ClientID.String())
	}

	totals, err := documents.CalculateTotals(inv.Items)
	if err != nil {
		return err
	}
	inv.ApplyTotals(totals)

	if err := s.checkNumberUnique(ctx, inv.InvoiceNumber, id.Nil()); err != nil {
		return err
	}

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].InvoiceType = documents.TypeSale
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inv); err != nil {
			return err
		}
		return s.repo.SaveItems(ctx, inv.ID, inv.Items)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale invoice created",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"client_id", inv.ClientID,
		"total", inv.Total)
	return nil
}

// GetByID retrieves a sale invoice with its items.
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

// Update persists header changes: status, dates, notes, payment method.
// Items and amounts are immutable.
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

	logger.Info(ctx, "sale invoice updated",
		"invoice_id", inv.ID,
		"status", inv.Status,
		"version", inv.Version)
	return nil
}

// Delete restores the sold quantities to the ledger, then removes the
// invoice and its items.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	inv, err := s.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	warnings := s.reconciler.OnSaleDeleted(ctx, reversalLines(inv.Items))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteItems(ctx, invoiceID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, invoiceID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale invoice deleted",
		"invoice_id", invoiceID,
		"invoice_number", inv.InvoiceNumber,
		"warnings", len(warnings))
	return nil
}

// List returns sale invoices matching the filter.
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
		return apperror.NewDuplicate("sale invoice", "invoiceNumber", number)
	}
	return nil
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

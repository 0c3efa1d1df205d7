package document_repo

import (
	"context"

	"facturio/internal/core/id"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/documents/purchase"
	"facturio/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*baseInvoiceRepo[*purchase.Invoice]
	items *ItemsRepo
}

// NewPurchaseRepo creates a repository over the purchase ledger.
func NewPurchaseRepo(txm *postgres.TxManager, items *ItemsRepo) *PurchaseRepo {
	return &PurchaseRepo{
		baseInvoiceRepo: newBaseInvoiceRepo(
			txm,
			"purchase_invoices",
			"suppliers",
			"supplier_id",
			"supplier_name",
			postgres.ExtractDBColumns[purchase.Invoice](),
			func() *purchase.Invoice { return &purchase.Invoice{} },
		),
		items: items,
	}
}

func (r *PurchaseRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]documents.Item, error) {
	return r.items.GetByInvoice(ctx, invoiceID, documents.TypePurchase)
}

func (r *PurchaseRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []documents.Item) error {
	return r.items.Save(ctx, items)
}

func (r *PurchaseRepo) DeleteItems(ctx context.Context, invoiceID id.ID) error {
	return r.items.DeleteByInvoice(ctx, invoiceID, documents.TypePurchase)
}

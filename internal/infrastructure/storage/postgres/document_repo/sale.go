package document_repo

import (
	"context"

	"facturio/internal/core/id"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/documents/sale"
	"facturio/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*baseInvoiceRepo[*sale.Invoice]
	items *ItemsRepo
}

// NewSaleRepo creates a repository over the sale ledger.
func NewSaleRepo(txm *postgres.TxManager, items *ItemsRepo) *SaleRepo {
	return &SaleRepo{
		baseInvoiceRepo: newBaseInvoiceRepo(
			txm,
			"sale_invoices",
			"clients",
			"client_id",
			"client_name",
			postgres.ExtractDBColumns[sale.Invoice](),
			func() *sale.Invoice { return &sale.Invoice{} },
		),
		items: items,
	}
}

func (r *SaleRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]documents.Item, error) {
	return r.items.GetByInvoice(ctx, invoiceID, documents.TypeSale)
}

func (r *SaleRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []documents.Item) error {
	return r.items.Save(ctx, items)
}

func (r *SaleRepo) DeleteItems(ctx context.Context, invoiceID id.ID) error {
	return r.items.DeleteByInvoice(ctx, invoiceID, documents.TypeSale)
}

// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"facturio/internal/core/apperror"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/documents/purchase"
	"facturio/internal/domain/documents/sale"
	"facturio/internal/domain/parties"
	"facturio/internal/domain/registers/stock"
	"facturio/internal/infrastructure/storage/postgres"
	"facturio/internal/infrastructure/storage/postgres/catalog_repo"
	"facturio/internal/infrastructure/storage/postgres/document_repo"
	"facturio/internal/infrastructure/storage/postgres/register_repo"
	"facturio/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to ensure database schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	supplierService := parties.NewService(catalog_repo.NewSupplierRepo(txManager), parties.KindSupplier)
	clientService := parties.NewService(catalog_repo.NewClientRepo(txManager), parties.KindClient)

	suppliers, err := seedSuppliers(ctx, supplierService, log)
	if err != nil {
		log.Fatalw("failed to seed suppliers", "error", err)
	}

	clients, err := seedClients(ctx, clientService, log)
	if err != nil {
		log.Fatalw("failed to seed clients", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		itemsRepo := document_repo.NewItemsRepo(txManager)
		productRepo := register_repo.NewProductRepo(txManager, itemsRepo)
		stockService := stock.NewService(productRepo)
		purchaseService := purchase.NewService(
			document_repo.NewPurchaseRepo(txManager, itemsRepo),
			supplierService, stockService, txManager)
		saleService := sale.NewService(
			document_repo.NewSaleRepo(txManager, itemsRepo),
			clientService, stockService, txManager)

		if err := seedDemoInvoices(ctx, purchaseService, saleService, suppliers, clients, log); err != nil {
			log.Fatalw("failed to seed demo invoices", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedSuppliers(ctx context.Context, service *parties.Service, log *logger.Logger) ([]*parties.Party, error) {
	seeds := []*parties.Party{
		parties.NewParty("Fournitures Dupont", "contact@dupont.example", "+33 1 40 00 00 01", "12 rue de la Paix, Paris"),
		parties.NewParty("Grossiste Martin", "ventes@martin.example", "+33 4 72 00 00 02", "3 quai Saint-Antoine, Lyon"),
	}
	return seedParties(ctx, service, seeds, log)
}

func seedClients(ctx context.Context, service *parties.Service, log *logger.Logger) ([]*parties.Party, error) {
	seeds := []*parties.Party{
		parties.NewParty("Boutique Lambert", "achats@lambert.example", "+33 5 56 00 00 03", "8 cours de l'Intendance, Bordeaux"),
		parties.NewParty("Atelier Rousseau", "commande@rousseau.example", "+33 2 40 00 00 04", "21 rue Crebillon, Nantes"),
	}
	return seedParties(ctx, service, seeds, log)
}

func seedParties(ctx context.Context, service *parties.Service, seeds []*parties.Party, log *logger.Logger) ([]*parties.Party, error) {
	out := make([]*parties.Party, 0, len(seeds))
	for _, p := range seeds {
		err := service.Create(ctx, p)
		if err != nil {
			// Re-running the seeder is fine: existing parties are kept.
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
				log.Infow("party already exists, skipping", "kind", service.Kind(), "email", p.Email)
				continue
			}
			return nil, err
		}
		log.Infow("party seeded", "kind", service.Kind(), "name", p.Name)
		out = append(out, p)
	}
	return out, nil
}

func seedDemoInvoices(
	ctx context.Context,
	purchases *purchase.Service,
	sales *sale.Service,
	suppliers, clients []*parties.Party,
	log *logger.Logger,
) error {
	if len(suppliers) == 0 || len(clients) == 0 {
		log.Info("no freshly seeded parties, skipping demo invoices")
		return nil
	}

	inv := purchase.NewInvoice("FA-DEMO-001", suppliers[0].ID, time.Now().AddDate(0, 0, -7))
	inv.Status = purchase.StatusPaid
	inv.Items = []documents.Item{
		documents.NewItem("Cahier A5", decimal.NewFromInt(50), decimal.NewFromFloat(2.40), decimal.NewFromInt(20)),
		documents.NewItem("Stylo bille bleu", decimal.NewFromInt(200), decimal.NewFromFloat(0.35), decimal.NewFromInt(20)),
	}

	warnings, err := purchases.Create(ctx, inv)
	if err != nil {
		return fmt.Errorf("seed purchase invoice: %w", err)
	}
	for _, w := range warnings {
		log.Warnw("stock reconciliation warning", "line", w.LineNo, "message", w.Message)
	}
	log.Infow("purchase invoice seeded", "number", inv.InvoiceNumber, "total", inv.Total)

	saleInv := sale.NewInvoice("FV-DEMO-001", clients[0].ID, time.Now().AddDate(0, 0, -2))
	saleInv.Status = sale.StatusSent
	saleInv.BasedOnPurchase = &inv.ID
	saleInv.Items = []documents.Item{
		documents.NewItem("Cahier A5", decimal.NewFromInt(10), decimal.NewFromFloat(3.90), decimal.NewFromInt(20)),
	}

	if err := sales.Create(ctx, saleInv); err != nil {
		return fmt.Errorf("seed sale invoice: %w", err)
	}
	log.Infow("sale invoice seeded", "number", saleInv.InvoiceNumber, "total", saleInv.Total)

	return nil
}

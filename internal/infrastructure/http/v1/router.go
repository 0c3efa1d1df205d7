// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/domain/documents/purchase"
	"facturio/internal/domain/documents/sale"
	"facturio/internal/domain/parties"
	"facturio/internal/domain/registers/stock"
	"facturio/internal/domain/reports"
	"facturio/internal/infrastructure/http/v1/handlers"
	"facturio/internal/infrastructure/http/v1/middleware"
	"facturio/internal/infrastructure/storage/postgres"
	"facturio/internal/infrastructure/storage/postgres/catalog_repo"
	"facturio/internal/infrastructure/storage/postgres/document_repo"
	"facturio/internal/infrastructure/storage/postgres/register_repo"
	"facturio/internal/infrastructure/storage/postgres/report_repo"
	"facturio/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (used by health checks).
	Pool *postgres.Pool

	// TxManager provides transactional database access for repositories.
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Repositories
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	clientRepo := catalog_repo.NewClientRepo(cfg.TxManager)
	itemsRepo := document_repo.NewItemsRepo(cfg.TxManager)
	purchaseRepo := document_repo.NewPurchaseRepo(cfg.TxManager, itemsRepo)
	saleRepo := document_repo.NewSaleRepo(cfg.TxManager, itemsRepo)
	productRepo := register_repo.NewProductRepo(cfg.TxManager, itemsRepo)
	dashboardRepo := report_repo.NewDashboardRepo(cfg.TxManager)

	// Services
	supplierService := parties.NewService(supplierRepo, parties.KindSupplier)
	clientService := parties.NewService(clientRepo, parties.KindClient)
	stockService := stock.NewService(productRepo)
	purchaseService := purchase.NewService(purchaseRepo, supplierService, stockService, cfg.TxManager)
	saleService := sale.NewService(saleRepo, clientService, stockService, cfg.TxManager)
	reportService := reports.NewService(dashboardRepo)

	// API v1
	api := router.Group("/api/v1")
	{
		supplierHandler := handlers.NewPartyHandler(baseHandler, supplierService)
		supplierHandler.RegisterRoutes(api.Group("/suppliers"))

		clientHandler := handlers.NewPartyHandler(baseHandler, clientService)
		clientHandler.RegisterRoutes(api.Group("/clients"))

		purchaseHandler := handlers.NewPurchaseInvoiceHandler(baseHandler, purchaseService)
		purchaseHandler.RegisterRoutes(api.Group("/invoices/purchases"))

		saleHandler := handlers.NewSaleInvoiceHandler(baseHandler, saleService)
		saleHandler.RegisterRoutes(api.Group("/invoices/sales"))

		productHandler := handlers.NewProductHandler(baseHandler, stockService)
		productHandler.RegisterRoutes(api.Group("/products"))

		dashboardHandler := handlers.NewDashboardHandler(baseHandler, reportService)
		dashboardHandler.RegisterRoutes(api.Group("/dashboard"))
	}

	return router
}

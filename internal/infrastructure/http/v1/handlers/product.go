package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"facturio/internal/domain/registers/stock"
	"facturio/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the derived stock register.
type ProductHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *stock.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the product routes.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

// List returns the product ledger with purchase history. Supports
// search, and lowStock=true with an optional threshold override.
func (h *ProductHandler) List(c *gin.Context) {
	filter := stock.ListFilter{
		Search: c.Query("search"),
	}

	if c.Query("lowStock") == "true" {
		filter.LowStock = true
		threshold := h.ParseIntQuery(c, "threshold", stock.DefaultLowStockThreshold)
		filter.Threshold = decimal.NewFromInt(int64(threshold))
	}

	products, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      products,
		TotalCount: int64(len(products)),
	})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/domain"
	"facturio/internal/domain/documents/sale"
	"facturio/internal/infrastructure/http/v1/dto"
)

// SaleInvoiceHandler serves the sale invoice ledger.
type SaleInvoiceHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleInvoiceHandler creates a new sale invoice handler.
func NewSaleInvoiceHandler(base *BaseHandler, service *sale.Service) *SaleInvoiceHandler {
	return &SaleInvoiceHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the invoice routes.
func (h *SaleInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns sale invoices with search, status filter and pagination.
func (h *SaleInvoiceHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := domain.DefaultListFilter()
	filter.OrderBy = ""
	filter.Search = query.Search
	filter.Status = query.Status
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.Limit > 0 {
		filter.Limit = query.Limit
	}
	filter.Offset = query.Offset

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get returns one invoice with its items.
func (h *SaleInvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Create records a sale invoice. Sales do not move the stock register.
func (h *SaleInvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateSaleInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.CreateInvoiceResponse{
		ID:        inv.ID.String(),
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
	})
}

// Update edits header fields. Items stay immutable.
func (h *SaleInvoiceHandler) Update(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateSaleInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(inv)
	if err := h.service.Update(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// Delete removes the invoice and restores sold quantities to stock.
func (h *SaleInvoiceHandler) Delete(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/domain"
	"facturio/internal/domain/documents/purchase"
	"facturio/internal/infrastructure/http/v1/dto"
)

// PurchaseInvoiceHandler serves the purchase invoice ledger.
type PurchaseInvoiceHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseInvoiceHandler creates a new purchase invoice handler.
func NewPurchaseInvoiceHandler(base *BaseHandler, service *purchase.Service) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the invoice routes.
func (h *PurchaseInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns purchase invoices with search, status filter and pagination.
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
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
func (h *PurchaseInvoiceHandler) Get(c *gin.Context) {
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

// Create records a purchase invoice and feeds the stock register.
// Reconciliation warnings are returned alongside the created invoice.
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	warnings, err := h.service.Create(c.Request.Context(), inv)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.CreateInvoiceResponse{
		ID:        inv.ID.String(),
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
		Warnings:  warnings,
	})
}

// Update edits header fields. Items stay immutable, the stock register
// is not touched.
func (h *PurchaseInvoiceHandler) Update(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseInvoiceRequest
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

// Delete removes the invoice and reverses its stock effect.
func (h *PurchaseInvoiceHandler) Delete(c *gin.Context) {
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

package handlers

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/domain"
	"facturio/internal/domain/parties"
	"facturio/internal/infrastructure/http/v1/dto"
)

// PartyHandler serves one party catalog (suppliers or clients).
type PartyHandler struct {
	*BaseHandler
	service *parties.Service
}

// NewPartyHandler creates a new party handler.
func NewPartyHandler(base *BaseHandler, service *parties.Service) *PartyHandler {
	return &PartyHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the standard catalog routes.
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/list", h.ListSlim)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns parties with search and pagination.
func (h *PartyHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := domain.DefaultListFilter()
	filter.Search = query.Search
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

// ListSlim returns id/name/email rows for select boxes.
func (h *PartyHandler) ListSlim(c *gin.Context) {
	items, err := h.service.ListSlim(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Get returns one party.
func (h *PartyHandler) Get(c *gin.Context) {
	partyID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create adds a new party.
func (h *PartyHandler) Create(c *gin.Context) {
	var req dto.CreatePartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, p)
}

// Update replaces the party's editable fields.
func (h *PartyHandler) Update(c *gin.Context) {
	partyID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete removes the party.
func (h *PartyHandler) Delete(c *gin.Context) {
	partyID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), partyID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

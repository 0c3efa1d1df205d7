package handlers

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/domain/reports"
)

// DashboardHandler serves aggregated reporting endpoints.
type DashboardHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *reports.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the dashboard routes.
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	rg.GET("/charts", h.Charts)
	rg.GET("/health", h.Health)
}

// Stats returns counts, financial summary and recent activity. The
// period query parameter is accepted for client compatibility but the
// aggregation always covers all recorded invoices.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Charts returns the monthly series, status breakdown and top parties.
func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.service.GetCharts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, charts)
}

// Health returns database connectivity plus overdue and low-stock counts.
func (h *DashboardHandler) Health(c *gin.Context) {
	health, err := h.service.GetHealth(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, health)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kgabrunepark/suspension-api/internal/service"
	"github.com/kgabrunepark/suspension-api/pkg/response"
)

// DashboardHandler serves the status summary behind the dashboard badges.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Per-status record counts
// @Tags Suspensions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /suspensions/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

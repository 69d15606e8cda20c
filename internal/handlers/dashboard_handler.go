package handlers

import (
	"net/http"

	"itms-api/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns the org-wide overview counts.
func (h *DashboardHandler) Summary(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	summary, err := h.dashboard.Summary(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

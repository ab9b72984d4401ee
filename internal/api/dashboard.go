package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/inventory"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	Aggregator *inventory.DashboardAggregator
	Log        *zap.SugaredLogger
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	snapshot, err := h.Aggregator.Snapshot(c.Request.Context(), tenant(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

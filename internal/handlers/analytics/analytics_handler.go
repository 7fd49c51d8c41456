// internal/handlers/analytics/analytics_handler.go
package analytics

import (
	"net/http"

	"promo-service/internal/pkg/response"
	service "promo-service/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	aggregator *service.Aggregator
}

func NewAnalyticsHandler(aggregator *service.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: aggregator}
}

// GetSnapshot returns the blended cross-channel metrics (admin only)
func (h *AnalyticsHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.aggregator.Snapshot(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to build snapshot", err)
		return
	}

	response.Success(c, http.StatusOK, "snapshot generated", snap)
}

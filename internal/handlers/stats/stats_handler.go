// internal/handlers/stats/stats_handler.go
package stats

import (
	"net/http"

	"dealerdesk-service/internal/middleware"
	"dealerdesk-service/internal/pkg/response"
	statssvc "dealerdesk-service/internal/service/stats"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler struct {
	service *statssvc.StatsService
	logger  *zap.Logger
}

func NewStatsHandler(service *statssvc.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: logger}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	snapshot, err := h.service.Aggregate(c.Request.Context(), vendorID)
	if err != nil {
		h.logger.Error("stats aggregation failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load stats", err)
		return
	}

	response.Success(c, http.StatusOK, "stats", snapshot)
}

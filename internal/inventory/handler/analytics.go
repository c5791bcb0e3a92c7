package handler

import (
	"net/http"
	"strconv"

	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// AnalyticsHandler handles analytics report endpoints
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  log,
	}
}

// Report builds an analytics report over the current product snapshot.
// An optional recent_revenue query parameter feeds the turnover ratio.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	recentRevenue := -1.0
	if raw := r.URL.Query().Get("recent_revenue"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			httputil.Error(w, errors.Validation(map[string]string{
				"recent_revenue": "must be a non-negative number",
			}))
			return
		}
		recentRevenue = v
	}

	report, err := h.service.Refresh(r.Context(), recentRevenue)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

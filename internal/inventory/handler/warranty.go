package handler

import (
	"net/http"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// WarrantyHandler handles warranty expiry endpoints
type WarrantyHandler struct {
	service *service.WarrantyService
	logger  *logger.Logger
}

// NewWarrantyHandler creates a new warranty handler
func NewWarrantyHandler(svc *service.WarrantyService, log *logger.Logger) *WarrantyHandler {
	return &WarrantyHandler{
		service: svc,
		logger:  log,
	}
}

// ListExpiring lists items whose warranty ends within the lookahead window
func (h *WarrantyHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListExpiring(r.Context(), time.Now())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, items, &httputil.Meta{
		Total: int64(len(items)),
	})
}

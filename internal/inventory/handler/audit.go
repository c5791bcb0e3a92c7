package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	service *service.AuditService
	logger  *logger.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(svc *service.AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: svc,
		logger:  log,
	}
}

// History lists an item's audit trail, oldest change first
func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	entries, err := h.service.History(r.Context(), itemID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

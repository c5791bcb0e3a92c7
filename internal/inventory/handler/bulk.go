package handler

import (
	"net/http"

	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// BulkHandler handles bulk operation endpoints
type BulkHandler struct {
	service *service.BulkService
	logger  *logger.Logger
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(svc *service.BulkService, log *logger.Logger) *BulkHandler {
	return &BulkHandler{
		service: svc,
		logger:  log,
	}
}

type bulkStatusRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1"`
	Status  string   `json:"status" validate:"required"`
	Reason  string   `json:"reason,omitempty"`
}

// SetStatus applies one status change to many items.
// Individual item failures are reported in the result, not as an error.
func (h *BulkHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.SetStatus(r.Context(), req.ItemIDs, service.BulkChange{
		Status: req.Status,
		Reason: req.Reason,
	}, h.logProgress(service.BulkOpStatus))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

type bulkLocationRequest struct {
	ItemIDs  []string `json:"item_ids" validate:"required,min=1"`
	Location string   `json:"location" validate:"required"`
	Shelf    *string  `json:"shelf,omitempty"`
	Bin      *string  `json:"bin,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// SetLocation applies one location change to many items
func (h *BulkHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req bulkLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.SetLocation(r.Context(), req.ItemIDs, service.BulkChange{
		Location: req.Location,
		Shelf:    req.Shelf,
		Bin:      req.Bin,
		Reason:   req.Reason,
	}, h.logProgress(service.BulkOpLocation))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// logProgress reports batch progress to the log so large batches can be
// followed while they run.
func (h *BulkHandler) logProgress(operation string) service.ProgressFunc {
	return func(done, total int) {
		if done%100 == 0 || done == total {
			h.logger.Info().
				Str("operation", operation).
				Int("done", done).
				Int("total", total).
				Msg("bulk progress")
		}
	}
}

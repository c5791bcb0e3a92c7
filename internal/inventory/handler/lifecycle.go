package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// LifecycleHandler handles single-item status and location endpoints
type LifecycleHandler struct {
	status   *service.StatusService
	location *service.LocationService
	logger   *logger.Logger
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(status *service.StatusService, location *service.LocationService, log *logger.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		status:   status,
		location: location,
		logger:   log,
	}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// SetStatus changes an item's lifecycle status
func (h *LifecycleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.status.SetStatus(r.Context(), id, req.Status, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

type setLocationRequest struct {
	Location string  `json:"location" validate:"required"`
	Shelf    *string `json:"shelf,omitempty"`
	Bin      *string `json:"bin,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// SetLocation moves an item to a new storage location
func (h *LifecycleHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.location.SetLocation(r.Context(), id, req.Location, req.Shelf, req.Bin, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

func badDateError(field string) error {
	return errors.Validation(map[string]string{
		field: "must be a date in 2006-01-02 format",
	})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// SuggestionHandler handles intake suggestion endpoints
type SuggestionHandler struct {
	service *service.SuggestionService
	logger  *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(svc *service.SuggestionService, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: svc,
		logger:  log,
	}
}

// Get lists saved suggestions for a kind, most recent first
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	values, err := h.service.Get(r.Context(), kind)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, values)
}

type addSuggestionRequest struct {
	Value string `json:"value" validate:"required"`
}

// Add records a newly used value for a kind
func (h *SuggestionHandler) Add(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req addSuggestionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	values, err := h.service.Add(r.Context(), kind, req.Value)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, values)
}

// Clear removes all saved suggestions for a kind
func (h *SuggestionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	if err := h.service.Clear(r.Context(), kind); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

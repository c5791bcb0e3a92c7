package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// ItemHandler handles item intake and lookup endpoints
type ItemHandler struct {
	service *service.ItemService
	logger  *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(svc *service.ItemService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		service: svc,
		logger:  log,
	}
}

// List lists inventory items matching query filters
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &repository.ItemFilter{
		Status:     q.Get("status"),
		Location:   q.Get("location"),
		SearchText: q.Get("search"),
	}

	if from := q.Get("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			httputil.Error(w, badDateError("date_from"))
			return
		}
		filter.DateFrom = &t
	}
	if to := q.Get("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			httputil.Error(w, badDateError("date_to"))
			return
		}
		filter.DateTo = &t
	}

	items, err := h.service.Query(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}

// Get gets an item by ID
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// GetBySerial looks an item up by its serial number
func (h *ItemHandler) GetBySerial(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serial")

	item, err := h.service.GetBySerialNumber(r.Context(), serial)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Create receives a new unit into stock
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateItemInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&input); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), &input)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, item)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitstock/unitstock-backend/internal/inventory/handler"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/config"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/httputil"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// memItemStore is a minimal in-memory record store for handler tests.
type memItemStore struct {
	items map[string]*repository.InventoryItem
}

func (s *memItemStore) Create(ctx context.Context, item *repository.InventoryItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *memItemStore) GetByID(ctx context.Context, id string) (*repository.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("item")
	}
	copied := *item
	return &copied, nil
}

func (s *memItemStore) GetBySerialNumber(ctx context.Context, serial string) (*repository.InventoryItem, error) {
	for _, item := range s.items {
		if item.SerialNumber != nil && *item.SerialNumber == serial {
			copied := *item
			return &copied, nil
		}
	}
	return nil, errors.NotFound("item")
}

func (s *memItemStore) Update(ctx context.Context, id string, patch *repository.ItemPatch) (*repository.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("item")
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Shelf != nil {
		item.Shelf = *patch.Shelf
	}
	if patch.Bin != nil {
		item.Bin = *patch.Bin
	}
	item.UpdatedAt = time.Now()
	copied := *item
	return &copied, nil
}

func (s *memItemStore) Query(ctx context.Context, filter *repository.ItemFilter) ([]*repository.InventoryItem, error) {
	var out []*repository.InventoryItem
	for _, item := range s.items {
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memItemStore) ListWarrantyExpiring(ctx context.Context, now time.Time, windowDays int) ([]*repository.InventoryItem, error) {
	return nil, nil
}

// memAuditStore collects entries in order.
type memAuditStore struct {
	entries []*repository.AuditEntry
}

func (s *memAuditStore) Create(ctx context.Context, entry *repository.AuditEntry) error {
	entry.ChangedAt = time.Now()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memAuditStore) ListByItem(ctx context.Context, itemID string) ([]*repository.AuditEntry, error) {
	var out []*repository.AuditEntry
	for _, e := range s.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestRouter(items *memItemStore, audits *memAuditStore) chi.Router {
	log := logger.New("test", "test")
	auditSvc := service.NewAuditService(audits, log)
	statusSvc := service.NewStatusService(items, auditSvc, nil, log)
	locationSvc := service.NewLocationService(items, auditSvc, nil, log)
	bulkSvc := service.NewBulkService(statusSvc, locationSvc, nil, config.BulkConfig{ChunkSize: 25}, log)

	lifecycleHandler := handler.NewLifecycleHandler(statusSvc, locationSvc, log)
	bulkHandler := handler.NewBulkHandler(bulkSvc, log)
	auditHandler := handler.NewAuditHandler(auditSvc, log)

	r := chi.NewRouter()
	r.Put("/items/{id}/status", lifecycleHandler.SetStatus)
	r.Put("/items/{id}/location", lifecycleHandler.SetLocation)
	r.Get("/items/{id}/audit", auditHandler.History)
	r.Post("/bulk/status", bulkHandler.SetStatus)
	return r
}

func storedItem(id, status string) *repository.InventoryItem {
	return &repository.InventoryItem{
		ID:        id,
		ProductID: "prod-1",
		Status:    status,
		Location:  "Warehouse A",
		Shelf:     "Shelf1",
		Bin:       "B2",
	}
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestSetStatusEndpoint(t *testing.T) {
	items := &memItemStore{items: map[string]*repository.InventoryItem{
		"item-1": storedItem("item-1", repository.StatusAvailable),
	}}
	router := newTestRouter(items, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPut, "/items/item-1/status", map[string]string{
		"status": "sold",
		"reason": "Customer purchase",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, repository.StatusSold, items.items["item-1"].Status)
}

func TestSetStatusEndpoint_UnknownItem(t *testing.T) {
	router := newTestRouter(&memItemStore{items: map[string]*repository.InventoryItem{}}, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPut, "/items/nope/status", map[string]string{
		"status": "sold",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestSetStatusEndpoint_InvalidStatus(t *testing.T) {
	items := &memItemStore{items: map[string]*repository.InventoryItem{
		"item-1": storedItem("item-1", repository.StatusAvailable),
	}}
	router := newTestRouter(items, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPut, "/items/item-1/status", map[string]string{
		"status": "broken",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestSetLocationEndpoint(t *testing.T) {
	items := &memItemStore{items: map[string]*repository.InventoryItem{
		"item-1": storedItem("item-1", repository.StatusAvailable),
	}}
	router := newTestRouter(items, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPut, "/items/item-1/location", map[string]string{
		"location": "Warehouse B",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	item := items.items["item-1"]
	assert.Equal(t, "Warehouse B", item.Location)
	assert.Equal(t, "", item.Shelf)
	assert.Equal(t, "", item.Bin)
}

func TestAuditHistoryEndpoint(t *testing.T) {
	items := &memItemStore{items: map[string]*repository.InventoryItem{
		"item-1": storedItem("item-1", repository.StatusAvailable),
	}}
	audits := &memAuditStore{}
	router := newTestRouter(items, audits)

	doJSON(t, router, http.MethodPut, "/items/item-1/status", map[string]string{"status": "sold"})

	rec, resp := doJSON(t, router, http.MethodGet, "/items/item-1/audit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var entries []repository.AuditEntry
	require.NoError(t, json.Unmarshal(raw, &entries))

	require.Len(t, entries, 1)
	assert.Equal(t, "status", entries[0].FieldName)
}

func TestBulkStatusEndpoint_PartialFailure(t *testing.T) {
	items := &memItemStore{items: map[string]*repository.InventoryItem{
		"item-1": storedItem("item-1", repository.StatusAvailable),
	}}
	router := newTestRouter(items, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPost, "/bulk/status", map[string]interface{}{
		"item_ids": []string{"item-1", "ghost"},
		"status":   "damaged",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result service.BatchResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.Equal(t, 1, result.UpdatedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ghost", result.Failures[0].ItemID)
}

func TestBulkStatusEndpoint_EmptyBodyRejected(t *testing.T) {
	router := newTestRouter(&memItemStore{items: map[string]*repository.InventoryItem{}}, &memAuditStore{})

	rec, resp := doJSON(t, router, http.MethodPost, "/bulk/status", map[string]interface{}{
		"item_ids": []string{},
		"status":   "sold",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
}

package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/internal/inventory/service"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test", "test")
}

// fakeItemStore is an in-memory record store for service tests.
type fakeItemStore struct {
	items map[string]*repository.InventoryItem
	// failOn makes every call for the given item id fail, simulating a
	// storage fault.
	failOn map[string]bool
}

func newFakeItemStore(items ...*repository.InventoryItem) *fakeItemStore {
	s := &fakeItemStore{
		items:  map[string]*repository.InventoryItem{},
		failOn: map[string]bool{},
	}
	for _, item := range items {
		copied := *item
		s.items[item.ID] = &copied
	}
	return s
}

func (s *fakeItemStore) Create(ctx context.Context, item *repository.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = repository.StatusAvailable
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *fakeItemStore) GetByID(ctx context.Context, id string) (*repository.InventoryItem, error) {
	if s.failOn[id] {
		return nil, errors.Persistence(fmt.Errorf("store unavailable"))
	}
	item, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("item")
	}
	copied := *item
	return &copied, nil
}

func (s *fakeItemStore) GetBySerialNumber(ctx context.Context, serial string) (*repository.InventoryItem, error) {
	for _, item := range s.items {
		if item.SerialNumber != nil && *item.SerialNumber == serial {
			copied := *item
			return &copied, nil
		}
	}
	return nil, errors.NotFound("item")
}

func (s *fakeItemStore) Update(ctx context.Context, id string, patch *repository.ItemPatch) (*repository.InventoryItem, error) {
	if s.failOn[id] {
		return nil, errors.Persistence(fmt.Errorf("store unavailable"))
	}
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
	if patch.CostPrice != nil {
		item.CostPrice = patch.CostPrice
	}
	if patch.SellingPrice != nil {
		item.SellingPrice = patch.SellingPrice
	}
	if patch.Notes != nil {
		item.Notes = patch.Notes
	}
	item.UpdatedAt = time.Now()
	copied := *item
	return &copied, nil
}

func (s *fakeItemStore) Query(ctx context.Context, filter *repository.ItemFilter) ([]*repository.InventoryItem, error) {
	var out []*repository.InventoryItem
	for _, item := range s.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Location != "" && item.Location != filter.Location {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeItemStore) ListWarrantyExpiring(ctx context.Context, now time.Time, windowDays int) ([]*repository.InventoryItem, error) {
	cutoff := now.AddDate(0, 0, windowDays)
	var out []*repository.InventoryItem
	for _, item := range s.items {
		if item.WarrantyEnd == nil || item.WarrantyEnd.After(cutoff) {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

// fakeAuditStore collects audit entries in insertion order.
type fakeAuditStore struct {
	entries []*repository.AuditEntry
	failing bool
}

func (s *fakeAuditStore) Create(ctx context.Context, entry *repository.AuditEntry) error {
	if s.failing {
		return errors.Persistence(fmt.Errorf("store unavailable"))
	}
	entry.ID = uuid.New().String()
	entry.Seq = int64(len(s.entries) + 1)
	entry.ChangedAt = time.Now()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeAuditStore) ListByItem(ctx context.Context, itemID string) ([]*repository.AuditEntry, error) {
	var out []*repository.AuditEntry
	for _, e := range s.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeAuditStore) entriesFor(itemID string) []*repository.AuditEntry {
	out, _ := s.ListByItem(context.Background(), itemID)
	return out
}

// fakeProductStore serves a fixed product snapshot.
type fakeProductStore struct {
	products []*repository.Product
}

func (s *fakeProductStore) ListWithVariants(ctx context.Context) ([]*repository.Product, error) {
	return s.products, nil
}

func newLifecycleServices(items *fakeItemStore, audits *fakeAuditStore) (*service.StatusService, *service.LocationService) {
	log := testLogger()
	auditSvc := service.NewAuditService(audits, log)
	statusSvc := service.NewStatusService(items, auditSvc, nil, log)
	locationSvc := service.NewLocationService(items, auditSvc, nil, log)
	return statusSvc, locationSvc
}

func testItem(id, status string) *repository.InventoryItem {
	serial := "SN-" + id
	return &repository.InventoryItem{
		ID:           id,
		ProductID:    uuid.New().String(),
		SerialNumber: &serial,
		Status:       status,
		Location:     "Warehouse A",
		Shelf:        "Shelf1",
		Bin:          "B2",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

package service

import (
	"context"
	"strings"

	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// LocationService moves items between storage locations.
type LocationService struct {
	items     ItemStore
	audit     *AuditService
	publisher *events.InventoryEventPublisher
	logger    *logger.Logger
}

// NewLocationService creates a new location service
func NewLocationService(items ItemStore, audit *AuditService, publisher *events.InventoryEventPublisher, log *logger.Logger) *LocationService {
	return &LocationService{
		items:     items,
		audit:     audit,
		publisher: publisher,
		logger:    log,
	}
}

// LocationChangeResult reports the outcome of a location change.
type LocationChangeResult struct {
	Item         *repository.InventoryItem `json:"item"`
	AuditEntries []*repository.AuditEntry  `json:"audit_entries,omitempty"`
	Changed      bool                      `json:"changed"`
}

// SetLocation moves an item to a named location with optional shelf and
// bin slots. Moving to a different location resets shelf and bin: the old
// slots are meaningless in the new location, so any slot not supplied in
// the same request is cleared. Staying in the same location updates only
// the slots that were supplied.
func (s *LocationService) SetLocation(ctx context.Context, itemID, location string, shelf, bin *string, reason string) (*LocationChangeResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.Validation(map[string]string{
			"location": "location is required",
		})
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	newLocation := location
	newShelf := item.Shelf
	newBin := item.Bin

	if location != item.Location {
		// Slot coordinates do not survive a location move.
		newShelf = ""
		newBin = ""
	}
	if shelf != nil {
		newShelf = *shelf
	}
	if bin != nil {
		newBin = *bin
	}

	if newLocation == item.Location && newShelf == item.Shelf && newBin == item.Bin {
		return &LocationChangeResult{Item: item, Changed: false}, nil
	}

	patch := &repository.ItemPatch{}
	if newLocation != item.Location {
		patch.Location = &newLocation
	}
	if newShelf != item.Shelf {
		patch.Shelf = &newShelf
	}
	if newBin != item.Bin {
		patch.Bin = &newBin
	}

	updated, err := s.items.Update(ctx, itemID, patch)
	if err != nil {
		return nil, err
	}

	var entries []*repository.AuditEntry
	type fieldChange struct {
		name     string
		old, new string
	}
	changes := []fieldChange{}
	if newLocation != item.Location {
		changes = append(changes, fieldChange{"location", item.Location, newLocation})
	}
	if newShelf != item.Shelf {
		changes = append(changes, fieldChange{"shelf", item.Shelf, newShelf})
	}
	if newBin != item.Bin {
		changes = append(changes, fieldChange{"bin", item.Bin, newBin})
	}
	for _, c := range changes {
		entry, err := s.audit.RecordChange(ctx, itemID, c.name, c.old, c.new, reason)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	s.logger.Info().
		Str("item_id", itemID).
		Str("old_location", item.Location).
		Str("new_location", newLocation).
		Msg("item location changed")

	s.publisher.PublishLocationChanged(ctx, updated, item.Location, reason)

	return &LocationChangeResult{
		Item:         updated,
		AuditEntries: entries,
		Changed:      true,
	}, nil
}

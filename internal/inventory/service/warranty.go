package service

import (
	"context"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// DefaultWarrantyWindowDays is how far ahead the warranty monitor looks.
const DefaultWarrantyWindowDays = 30

// WarrantyService finds items whose warranty is about to lapse.
type WarrantyService struct {
	items      ItemStore
	windowDays int
	logger     *logger.Logger
}

// NewWarrantyService creates a new warranty service. A windowDays of zero
// or less falls back to the default window.
func NewWarrantyService(items ItemStore, windowDays int, log *logger.Logger) *WarrantyService {
	if windowDays <= 0 {
		windowDays = DefaultWarrantyWindowDays
	}
	return &WarrantyService{
		items:      items,
		windowDays: windowDays,
		logger:     log,
	}
}

// IsExpiringSoon reports whether the item's warranty ends on or before the
// cutoff. The cutoff day itself counts as expiring; items without a
// warranty end date never expire.
func IsExpiringSoon(item *repository.InventoryItem, now time.Time, windowDays int) bool {
	if item == nil || item.WarrantyEnd == nil {
		return false
	}
	cutoff := now.AddDate(0, 0, windowDays)
	return !item.WarrantyEnd.After(cutoff)
}

// ListExpiring returns every item whose warranty ends within the
// configured window, soonest first.
func (s *WarrantyService) ListExpiring(ctx context.Context, now time.Time) ([]*repository.InventoryItem, error) {
	items, err := s.items.ListWarrantyExpiring(ctx, now, s.windowDays)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// WindowDays returns the configured lookahead window.
func (s *WarrantyService) WindowDays() int {
	return s.windowDays
}

// DaysUntil returns whole days from now until t, rounding partial days up.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	days := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	if days < 0 {
		return 0
	}
	return days
}

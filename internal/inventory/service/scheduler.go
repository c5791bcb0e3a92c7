package service

import (
	"context"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// WarrantyScheduler runs warranty expiry scans periodically and publishes
// an event for every item found inside the expiry window.
type WarrantyScheduler struct {
	warranty  *WarrantyService
	publisher *events.InventoryEventPublisher
	interval  time.Duration
	logger    *logger.Logger
	cancel    context.CancelFunc
}

// NewWarrantyScheduler creates a new warranty scheduler
func NewWarrantyScheduler(warranty *WarrantyService, publisher *events.InventoryEventPublisher, interval time.Duration, log *logger.Logger) *WarrantyScheduler {
	return &WarrantyScheduler{
		warranty:  warranty,
		publisher: publisher,
		interval:  interval,
		logger:    log,
	}
}

// Start starts the scheduler in a background goroutine.
func (s *WarrantyScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("warranty scheduler started")

		// Run an initial scan immediately
		s.runScanCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("warranty scheduler stopped")
				return
			case <-ticker.C:
				s.runScanCycle(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *WarrantyScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *WarrantyScheduler) runScanCycle(ctx context.Context) {
	now := time.Now()

	items, err := s.warranty.ListExpiring(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("warranty scan failed")
		return
	}

	for _, item := range items {
		if item.WarrantyEnd == nil {
			continue
		}
		s.publisher.PublishWarrantyExpiring(ctx, item, DaysUntil(now, *item.WarrantyEnd))
	}

	s.logger.Info().
		Dur("duration", time.Since(now)).
		Int("expiring_count", len(items)).
		Msg("warranty scan cycle completed")
}

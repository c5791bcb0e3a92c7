package service

import (
	"context"
	"strings"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/actor"
	"github.com/unitstock/unitstock-backend/pkg/config"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/logger"
	"github.com/unitstock/unitstock-backend/pkg/messaging"
)

// Bulk operation names, reported in results and events.
const (
	BulkOpStatus   = "status"
	BulkOpLocation = "location"
)

// BulkChange describes the change a bulk operation applies to every item.
// Exactly one of Status or Location drives the operation.
type BulkChange struct {
	Status   string  `json:"status,omitempty"`
	Location string  `json:"location,omitempty"`
	Shelf    *string `json:"shelf,omitempty"`
	Bin      *string `json:"bin,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// BulkFailure records a single item that could not be updated.
type BulkFailure struct {
	ItemID  string `json:"item_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult summarizes a bulk operation. Every requested item lands in
// exactly one bucket: updated, skipped as a no-op, or failed. When the
// context was cancelled mid-run, Cancelled is true and the counts cover
// only the items processed before the cancellation.
type BatchResult struct {
	Operation    string        `json:"operation"`
	Total        int           `json:"total"`
	UpdatedCount int           `json:"updated_count"`
	SkippedNoOp  int           `json:"skipped_no_op_count"`
	Failures     []BulkFailure `json:"failures"`
	Cancelled    bool          `json:"cancelled"`
}

// ProgressFunc is invoked after each item with how many items have been
// processed so far out of the total.
type ProgressFunc func(done, total int)

// BulkService applies a status or location change across many items with
// partial-failure semantics: one bad item never aborts the rest. Items are
// processed sequentially in chunks with a short pause between chunks so a
// large batch does not monopolize the database.
type BulkService struct {
	status    *StatusService
	location  *LocationService
	publisher *events.InventoryEventPublisher
	cfg       config.BulkConfig
	logger    *logger.Logger
}

// NewBulkService creates a new bulk service
func NewBulkService(status *StatusService, location *LocationService, publisher *events.InventoryEventPublisher, cfg config.BulkConfig, log *logger.Logger) *BulkService {
	return &BulkService{
		status:    status,
		location:  location,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
	}
}

// SetStatus applies a status change to every item in ids.
func (s *BulkService) SetStatus(ctx context.Context, ids []string, change BulkChange, progress ProgressFunc) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, errors.BadRequest("no item ids supplied")
	}
	if !repository.IsValidStatus(change.Status) {
		return nil, errors.Validation(map[string]string{
			"status": "invalid status: " + change.Status,
		})
	}

	return s.run(ctx, BulkOpStatus, ids, progress, func(ctx context.Context, id string) (bool, error) {
		res, err := s.status.SetStatus(ctx, id, change.Status, change.Reason)
		if err != nil {
			return false, err
		}
		return res.Changed, nil
	})
}

// SetLocation applies a location change to every item in ids.
func (s *BulkService) SetLocation(ctx context.Context, ids []string, change BulkChange, progress ProgressFunc) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, errors.BadRequest("no item ids supplied")
	}
	if strings.TrimSpace(change.Location) == "" {
		return nil, errors.Validation(map[string]string{
			"location": "location is required",
		})
	}

	return s.run(ctx, BulkOpLocation, ids, progress, func(ctx context.Context, id string) (bool, error) {
		res, err := s.location.SetLocation(ctx, id, change.Location, change.Shelf, change.Bin, change.Reason)
		if err != nil {
			return false, err
		}
		return res.Changed, nil
	})
}

func (s *BulkService) run(ctx context.Context, operation string, ids []string, progress ProgressFunc, apply func(ctx context.Context, id string) (bool, error)) (*BatchResult, error) {
	result := &BatchResult{
		Operation: operation,
		Total:     len(ids),
		Failures:  []BulkFailure{},
	}

	chunkSize := s.cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 25
	}

	done := 0
loop:
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}

		for _, id := range ids[start:end] {
			select {
			case <-ctx.Done():
				result.Cancelled = true
				break loop
			default:
			}

			changed, err := apply(ctx, id)
			switch {
			case err != nil:
				result.Failures = append(result.Failures, toFailure(id, err))
			case changed:
				result.UpdatedCount++
			default:
				result.SkippedNoOp++
			}

			done++
			if progress != nil {
				progress(done, result.Total)
			}
		}

		if end < len(ids) && s.cfg.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				result.Cancelled = true
				break loop
			case <-time.After(s.cfg.ChunkDelay):
			}
		}
	}

	s.logger.Info().
		Str("operation", operation).
		Int("total", result.Total).
		Int("updated", result.UpdatedCount).
		Int("skipped_no_op", result.SkippedNoOp).
		Int("failed", len(result.Failures)).
		Bool("cancelled", result.Cancelled).
		Msg("bulk operation finished")

	s.publisher.PublishBulkCompleted(ctx, messaging.BulkCompletedEvent{
		Operation:   result.Operation,
		Total:       result.Total,
		Updated:     result.UpdatedCount,
		SkippedNoOp: result.SkippedNoOp,
		Failed:      len(result.Failures),
		Cancelled:   result.Cancelled,
		InitiatedBy: actor.IdentityOrSystem(ctx),
	})

	return result, nil
}

func toFailure(id string, err error) BulkFailure {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return BulkFailure{ItemID: id, Code: appErr.Code, Message: appErr.Message}
	}
	return BulkFailure{ItemID: id, Code: "INTERNAL_ERROR", Message: err.Error()}
}

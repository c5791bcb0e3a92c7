package service

import (
	"context"
	"strings"

	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// StatusService applies lifecycle status changes to single items.
// Any status may move to any other status; the caller's business
// judgement is trusted and no transition graph is enforced.
type StatusService struct {
	items     ItemStore
	audit     *AuditService
	publisher *events.InventoryEventPublisher
	logger    *logger.Logger
}

// NewStatusService creates a new status service
func NewStatusService(items ItemStore, audit *AuditService, publisher *events.InventoryEventPublisher, log *logger.Logger) *StatusService {
	return &StatusService{
		items:     items,
		audit:     audit,
		publisher: publisher,
		logger:    log,
	}
}

// StatusChangeResult reports the outcome of a status change.
// Changed is false for a no-op; callers must not count no-ops as updates.
type StatusChangeResult struct {
	Item       *repository.InventoryItem `json:"item"`
	AuditEntry *repository.AuditEntry    `json:"audit_entry,omitempty"`
	Changed    bool                      `json:"changed"`
}

// SetStatus moves an item to newStatus and records the change.
// Setting the current status is a documented no-op: success, no audit entry.
func (s *StatusService) SetStatus(ctx context.Context, itemID, newStatus, reason string) (*StatusChangeResult, error) {
	if !repository.IsValidStatus(newStatus) {
		return nil, errors.Validation(map[string]string{
			"status": "must be one of: " + strings.Join(repository.Statuses, ", "),
		})
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.Status == newStatus {
		return &StatusChangeResult{Item: item, Changed: false}, nil
	}

	oldStatus := item.Status

	updated, err := s.items.Update(ctx, itemID, &repository.ItemPatch{Status: &newStatus})
	if err != nil {
		return nil, err
	}

	entry, err := s.audit.RecordChange(ctx, itemID, "status", oldStatus, newStatus, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item_id", itemID).
		Str("old_status", oldStatus).
		Str("new_status", newStatus).
		Msg("item status changed")

	s.publisher.PublishStatusChanged(ctx, updated, oldStatus, reason)

	return &StatusChangeResult{
		Item:       updated,
		AuditEntry: entry,
		Changed:    true,
	}, nil
}

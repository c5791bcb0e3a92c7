package service

import (
	"context"

	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/actor"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// AuditService records field-level changes as append-only audit entries.
// Every accepted mutation produces exactly one entry per changed field;
// no-op mutations produce none.
type AuditService struct {
	store  AuditStore
	logger *logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(store AuditStore, log *logger.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: log,
	}
}

// RecordChange appends one audit entry for a single field change.
// The acting identity is taken from the context; system when absent.
func (s *AuditService) RecordChange(ctx context.Context, itemID, fieldName, oldValue, newValue, reason string) (*repository.AuditEntry, error) {
	entry := &repository.AuditEntry{
		ItemID:    itemID,
		FieldName: fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: actor.IdentityOrSystem(ctx),
	}

	if reason != "" {
		entry.Reason = &reason
	}

	if err := s.store.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("item_id", itemID).
			Str("field_name", fieldName).
			Msg("failed to create audit entry")
		return nil, err
	}

	return entry, nil
}

// History lists all audit entries for an item, oldest first
func (s *AuditService) History(ctx context.Context, itemID string) ([]*repository.AuditEntry, error) {
	return s.store.ListByItem(ctx, itemID)
}

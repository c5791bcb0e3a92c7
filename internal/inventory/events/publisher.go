package events

import (
	"context"

	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/actor"
	"github.com/unitstock/unitstock-backend/pkg/logger"
	"github.com/unitstock/unitstock-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events.
// A nil publisher is valid and drops everything, so services can run
// without a broker in tests and local setups.
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishItemCreated publishes an item created event
func (p *InventoryEventPublisher) PublishItemCreated(ctx context.Context, item *repository.InventoryItem) {
	if p == nil {
		return
	}

	serial := ""
	if item.SerialNumber != nil {
		serial = *item.SerialNumber
	}

	data := messaging.ItemCreatedEvent{
		ItemID:       item.ID,
		ProductID:    item.ProductID,
		SerialNumber: serial,
		Status:       item.Status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventItemCreated, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish item created event")
	}
}

// PublishStatusChanged publishes a status changed event
func (p *InventoryEventPublisher) PublishStatusChanged(ctx context.Context, item *repository.InventoryItem, oldStatus, reason string) {
	if p == nil {
		return
	}

	data := messaging.ItemStatusChangedEvent{
		ItemID:    item.ID,
		OldStatus: oldStatus,
		NewStatus: item.Status,
		Reason:    reason,
		ChangedBy: changedBy(ctx),
	}

	if err := p.publisher.Publish(ctx, messaging.EventItemStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish status changed event")
	}
}

// PublishLocationChanged publishes a location changed event
func (p *InventoryEventPublisher) PublishLocationChanged(ctx context.Context, item *repository.InventoryItem, oldLocation, reason string) {
	if p == nil {
		return
	}

	data := messaging.ItemLocationChangedEvent{
		ItemID:    item.ID,
		Location:  item.Location,
		Shelf:     item.Shelf,
		Bin:       item.Bin,
		Reason:    reason,
		ChangedBy: changedBy(ctx),
	}

	if err := p.publisher.Publish(ctx, messaging.EventItemLocationChanged, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish location changed event")
	}
}

// PublishBulkCompleted publishes a bulk completed event
func (p *InventoryEventPublisher) PublishBulkCompleted(ctx context.Context, data messaging.BulkCompletedEvent) {
	if p == nil {
		return
	}

	if err := p.publisher.Publish(ctx, messaging.EventBulkCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("operation", data.Operation).Msg("failed to publish bulk completed event")
	}
}

// PublishWarrantyExpiring publishes a warranty expiring event. The caller
// supplies daysUntil so the day arithmetic lives in one place.
func (p *InventoryEventPublisher) PublishWarrantyExpiring(ctx context.Context, item *repository.InventoryItem, daysUntil int) {
	if p == nil {
		return
	}
	if item.WarrantyEnd == nil {
		return
	}

	serial := ""
	if item.SerialNumber != nil {
		serial = *item.SerialNumber
	}

	data := messaging.WarrantyExpiringEvent{
		ItemID:       item.ID,
		SerialNumber: serial,
		WarrantyEnd:  *item.WarrantyEnd,
		DaysUntil:    daysUntil,
	}

	if err := p.publisher.Publish(ctx, messaging.EventWarrantyExpiring, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to publish warranty expiring event")
	}
}

func changedBy(ctx context.Context) string {
	return actor.IdentityOrSystem(ctx)
}

package service

import (
	"context"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
)

// ItemStore is the narrow record-store contract the lifecycle services
// depend on. The persistence technology behind it is a collaborator,
// not part of the engine.
type ItemStore interface {
	Create(ctx context.Context, item *repository.InventoryItem) error
	GetByID(ctx context.Context, id string) (*repository.InventoryItem, error)
	GetBySerialNumber(ctx context.Context, serial string) (*repository.InventoryItem, error)
	Update(ctx context.Context, id string, patch *repository.ItemPatch) (*repository.InventoryItem, error)
	Query(ctx context.Context, filter *repository.ItemFilter) ([]*repository.InventoryItem, error)
	ListWarrantyExpiring(ctx context.Context, now time.Time, windowDays int) ([]*repository.InventoryItem, error)
}

// AuditStore is the append-only audit trail contract
type AuditStore interface {
	Create(ctx context.Context, entry *repository.AuditEntry) error
	ListByItem(ctx context.Context, itemID string) ([]*repository.AuditEntry, error)
}

// ProductStore provides the product/variant snapshot for analytics
type ProductStore interface {
	ListWithVariants(ctx context.Context) ([]*repository.Product, error)
}

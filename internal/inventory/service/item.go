package service

import (
	"context"
	"time"

	"github.com/unitstock/unitstock-backend/internal/inventory/events"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/errors"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// ItemService handles intake and lookup of serialized units.
type ItemService struct {
	items     ItemStore
	publisher *events.InventoryEventPublisher
	logger    *logger.Logger
}

// NewItemService creates a new item service
func NewItemService(items ItemStore, publisher *events.InventoryEventPublisher, log *logger.Logger) *ItemService {
	return &ItemService{
		items:     items,
		publisher: publisher,
		logger:    log,
	}
}

// CreateItemInput carries the intake fields for one received unit.
type CreateItemInput struct {
	ProductID     string   `json:"product_id" validate:"required,uuid"`
	VariantID     *string  `json:"variant_id,omitempty" validate:"omitempty,uuid"`
	SerialNumber  *string  `json:"serial_number,omitempty"`
	IMEI          *string  `json:"imei,omitempty"`
	MACAddress    *string  `json:"mac_address,omitempty"`
	Barcode       *string  `json:"barcode,omitempty"`
	Status        string   `json:"status,omitempty"`
	Location      string   `json:"location,omitempty"`
	Shelf         string   `json:"shelf,omitempty"`
	Bin           string   `json:"bin,omitempty"`
	CostPrice     *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SellingPrice  *float64 `json:"selling_price,omitempty" validate:"omitempty,gte=0"`
	PurchaseDate  *string  `json:"purchase_date,omitempty"`
	WarrantyStart *string  `json:"warranty_start,omitempty"`
	WarrantyEnd   *string  `json:"warranty_end,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Create receives one unit into stock. Status defaults to available.
func (s *ItemService) Create(ctx context.Context, input *CreateItemInput) (*repository.InventoryItem, error) {
	status := input.Status
	if status == "" {
		status = repository.StatusAvailable
	}
	if !repository.IsValidStatus(status) {
		return nil, errors.Validation(map[string]string{
			"status": "invalid status: " + status,
		})
	}
	if err := validatePrice("cost_price", input.CostPrice); err != nil {
		return nil, err
	}
	if err := validatePrice("selling_price", input.SellingPrice); err != nil {
		return nil, err
	}

	item := &repository.InventoryItem{
		ProductID:    input.ProductID,
		VariantID:    input.VariantID,
		SerialNumber: input.SerialNumber,
		IMEI:         input.IMEI,
		MACAddress:   input.MACAddress,
		Barcode:      input.Barcode,
		Status:       status,
		Location:     input.Location,
		Shelf:        input.Shelf,
		Bin:          input.Bin,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		Notes:        input.Notes,
	}

	var err error
	if item.PurchaseDate, err = parseDate("purchase_date", input.PurchaseDate); err != nil {
		return nil, err
	}
	if item.WarrantyStart, err = parseDate("warranty_start", input.WarrantyStart); err != nil {
		return nil, err
	}
	if item.WarrantyEnd, err = parseDate("warranty_end", input.WarrantyEnd); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Str("product_id", item.ProductID).
		Msg("item received into stock")

	s.publisher.PublishItemCreated(ctx, item)

	return item, nil
}

// GetByID returns one item
func (s *ItemService) GetByID(ctx context.Context, id string) (*repository.InventoryItem, error) {
	return s.items.GetByID(ctx, id)
}

// GetBySerialNumber returns the item carrying the given serial number
func (s *ItemService) GetBySerialNumber(ctx context.Context, serial string) (*repository.InventoryItem, error) {
	if serial == "" {
		return nil, errors.Validation(map[string]string{"serial": "serial number is required"})
	}
	return s.items.GetBySerialNumber(ctx, serial)
}

// Query lists items matching the filter
func (s *ItemService) Query(ctx context.Context, filter *repository.ItemFilter) ([]*repository.InventoryItem, error) {
	return s.items.Query(ctx, filter)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", *value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t, nil
	}
	return nil, errors.Validation(map[string]string{
		field: "must be a date (2006-01-02) or RFC 3339 timestamp",
	})
}

func validatePrice(field string, value *float64) error {
	if value != nil && *value < 0 {
		return errors.Validation(map[string]string{
			field: "must not be negative",
		})
	}
	return nil
}

package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Item lifecycle events
	EventItemCreated         = "item.created"
	EventItemStatusChanged   = "item.status.changed"
	EventItemLocationChanged = "item.location.changed"

	// Bulk operation events
	EventBulkCompleted = "bulk.completed"

	// Warranty events
	EventWarrantyExpiring = "warranty.expiring"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ItemCreatedEvent is published when a serialized unit is received into stock
type ItemCreatedEvent struct {
	ItemID       string `json:"item_id"`
	ProductID    string `json:"product_id"`
	SerialNumber string `json:"serial_number,omitempty"`
	Status       string `json:"status"`
}

// ItemStatusChangedEvent is published when an item's lifecycle status changes
type ItemStatusChangedEvent struct {
	ItemID    string `json:"item_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason,omitempty"`
	ChangedBy string `json:"changed_by"`
}

// ItemLocationChangedEvent is published when an item's storage location changes
type ItemLocationChangedEvent struct {
	ItemID    string `json:"item_id"`
	Location  string `json:"location"`
	Shelf     string `json:"shelf,omitempty"`
	Bin       string `json:"bin,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ChangedBy string `json:"changed_by"`
}

// BulkCompletedEvent is published when a bulk operation finishes or is cancelled
type BulkCompletedEvent struct {
	Operation    string `json:"operation"` // "status" or "location"
	Total        int    `json:"total"`
	Updated      int    `json:"updated"`
	SkippedNoOp  int    `json:"skipped_noop"`
	Failed       int    `json:"failed"`
	Cancelled    bool   `json:"cancelled"`
	InitiatedBy  string `json:"initiated_by"`
}

// WarrantyExpiringEvent is published when an item enters the expiry window
type WarrantyExpiringEvent struct {
	ItemID       string    `json:"item_id"`
	SerialNumber string    `json:"serial_number,omitempty"`
	WarrantyEnd  time.Time `json:"warranty_end"`
	DaysUntil    int       `json:"days_until"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}

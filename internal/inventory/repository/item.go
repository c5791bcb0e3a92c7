package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unitstock/unitstock-backend/pkg/database"
	"github.com/unitstock/unitstock-backend/pkg/errors"
)

// Lifecycle statuses for a serialized inventory unit. The set is closed;
// no transition graph is enforced between them.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusReserved  = "reserved"
	StatusDamaged   = "damaged"
	StatusWarranty  = "warranty"
	StatusReturned  = "returned"
)

// Statuses lists all valid lifecycle statuses
var Statuses = []string{
	StatusAvailable,
	StatusSold,
	StatusReserved,
	StatusDamaged,
	StatusWarranty,
	StatusReturned,
}

// IsValidStatus reports whether s is one of the defined lifecycle statuses
func IsValidStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// InventoryItem represents one physical, individually tracked unit of stock
type InventoryItem struct {
	ID            string     `db:"id" json:"id"`
	ProductID     string     `db:"product_id" json:"product_id"`
	VariantID     *string    `db:"variant_id" json:"variant_id,omitempty"`
	SerialNumber  *string    `db:"serial_number" json:"serial_number,omitempty"`
	IMEI          *string    `db:"imei" json:"imei,omitempty"`
	MACAddress    *string    `db:"mac_address" json:"mac_address,omitempty"`
	Barcode       *string    `db:"barcode" json:"barcode,omitempty"`
	Status        string     `db:"status" json:"status"`
	Location      string     `db:"location" json:"location"`
	Shelf         string     `db:"shelf" json:"shelf"`
	Bin           string     `db:"bin" json:"bin"`
	CostPrice     *float64   `db:"cost_price" json:"cost_price,omitempty"`
	SellingPrice  *float64   `db:"selling_price" json:"selling_price,omitempty"`
	PurchaseDate  *time.Time `db:"purchase_date" json:"purchase_date,omitempty"`
	WarrantyStart *time.Time `db:"warranty_start" json:"warranty_start,omitempty"`
	WarrantyEnd   *time.Time `db:"warranty_end" json:"warranty_end,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// ItemPatch is a whole-field patch for an item. Nil fields are left
// unchanged; a non-nil pointer overwrites the stored value, including
// overwriting with the empty string.
type ItemPatch struct {
	Status        *string
	Location      *string
	Shelf         *string
	Bin           *string
	CostPrice     *float64
	SellingPrice  *float64
	PurchaseDate  *time.Time
	WarrantyStart *time.Time
	WarrantyEnd   *time.Time
	Notes         *string
}

// ItemFilter narrows item queries
type ItemFilter struct {
	Status     string
	Location   string
	DateFrom   *time.Time
	DateTo     *time.Time
	SearchText string
}

const itemColumns = `id, product_id, variant_id, serial_number, imei, mac_address, barcode,
	       status, location, shelf, bin, cost_price, selling_price,
	       purchase_date, warranty_start, warranty_end, notes, created_at, updated_at`

// ItemRepository handles inventory item persistence.
// Concurrent writers to the same item are serialized by Postgres;
// the effective policy for racing updates is last-write-wins.
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new inventory item
func (r *ItemRepository) Create(ctx context.Context, item *InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = StatusAvailable
	}

	query := `
		INSERT INTO inventory_items (
			id, product_id, variant_id, serial_number, imei, mac_address, barcode,
			status, location, shelf, bin, cost_price, selling_price,
			purchase_date, warranty_start, warranty_end, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.ProductID, item.VariantID, item.SerialNumber, item.IMEI,
		item.MACAddress, item.Barcode, item.Status, item.Location, item.Shelf,
		item.Bin, item.CostPrice, item.SellingPrice, item.PurchaseDate,
		item.WarrantyStart, item.WarrantyEnd, item.Notes,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return errors.Persistence(err)
	}

	return nil
}

// GetByID gets an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*InventoryItem, error) {
	var item InventoryItem

	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	err := r.db.GetContext(ctx, &item, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("item")
	}
	if err != nil {
		return nil, errors.Persistence(err)
	}

	return &item, nil
}

// GetBySerialNumber gets an item by serial number
func (r *ItemRepository) GetBySerialNumber(ctx context.Context, serial string) (*InventoryItem, error) {
	var item InventoryItem

	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE serial_number = $1`
	err := r.db.GetContext(ctx, &item, query, serial)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("item")
	}
	if err != nil {
		return nil, errors.Persistence(err)
	}

	return &item, nil
}

// Update applies a whole-field patch and returns the updated item.
// updated_at is refreshed on every accepted patch.
func (r *ItemRepository) Update(ctx context.Context, id string, patch *ItemPatch) (*InventoryItem, error) {
	sets := []string{}
	args := []interface{}{id}
	argIdx := 2

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.Location != nil {
		addSet("location", *patch.Location)
	}
	if patch.Shelf != nil {
		addSet("shelf", *patch.Shelf)
	}
	if patch.Bin != nil {
		addSet("bin", *patch.Bin)
	}
	if patch.CostPrice != nil {
		addSet("cost_price", *patch.CostPrice)
	}
	if patch.SellingPrice != nil {
		addSet("selling_price", *patch.SellingPrice)
	}
	if patch.PurchaseDate != nil {
		addSet("purchase_date", *patch.PurchaseDate)
	}
	if patch.WarrantyStart != nil {
		addSet("warranty_start", *patch.WarrantyStart)
	}
	if patch.WarrantyEnd != nil {
		addSet("warranty_end", *patch.WarrantyEnd)
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE inventory_items SET `
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += `, updated_at = NOW() WHERE id = $1 RETURNING ` + itemColumns

	var item InventoryItem
	err := r.db.GetContext(ctx, &item, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("item")
	}
	if err != nil {
		return nil, errors.Persistence(err)
	}

	return &item, nil
}

// Query lists items matching the filter, newest first
func (r *ItemRepository) Query(ctx context.Context, filter *ItemFilter) ([]*InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Location != "" {
		query += fmt.Sprintf(` AND location = $%d`, argIdx)
		args = append(args, filter.Location)
		argIdx++
	}

	if filter.DateFrom != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}

	if filter.DateTo != nil {
		query += fmt.Sprintf(` AND created_at <= $%d`, argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	if filter.SearchText != "" {
		pattern := "%" + filter.SearchText + "%"
		query += fmt.Sprintf(` AND (serial_number ILIKE $%d OR imei ILIKE $%d OR mac_address ILIKE $%d OR barcode ILIKE $%d)`,
			argIdx, argIdx, argIdx, argIdx)
		args = append(args, pattern)
		argIdx++
	}

	query += ` ORDER BY created_at DESC`

	var items []*InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.Persistence(err)
	}

	return items, nil
}

// ListWarrantyExpiring lists items whose warranty end falls on or before
// now + windowDays. Items whose warranty already lapsed are included.
func (r *ItemRepository) ListWarrantyExpiring(ctx context.Context, now time.Time, windowDays int) ([]*InventoryItem, error) {
	cutoff := now.AddDate(0, 0, windowDays)

	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE warranty_end IS NOT NULL AND warranty_end <= $1
		ORDER BY warranty_end ASC`

	var items []*InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, cutoff); err != nil {
		return nil, errors.Persistence(err)
	}

	return items, nil
}

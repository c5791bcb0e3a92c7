package repository

import (
	"context"
	"time"

	"github.com/unitstock/unitstock-backend/pkg/database"
	"github.com/unitstock/unitstock-backend/pkg/errors"
)

// ProductVariant is a priced, stock-tracked SKU belonging to a product
type ProductVariant struct {
	ID           string  `db:"id" json:"id"`
	ProductID    string  `db:"product_id" json:"product_id"`
	SKU          string  `db:"sku" json:"sku"`
	CostPrice    float64 `db:"cost_price" json:"cost_price"`
	SellingPrice float64 `db:"selling_price" json:"selling_price"`
	Quantity     int     `db:"quantity" json:"quantity"`
	MinQuantity  *int    `db:"min_quantity" json:"min_quantity,omitempty"`
	MaxQuantity  *int    `db:"max_quantity" json:"max_quantity,omitempty"`
}

// Product groups variants under one catalog entry
type Product struct {
	ID            string            `db:"id" json:"id"`
	Name          string            `db:"name" json:"name"`
	MinStockLevel *int              `db:"min_stock_level" json:"min_stock_level,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	Variants      []*ProductVariant `db:"-" json:"variants"`
}

// ProductRepository handles product and variant persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListWithVariants lists all products with their variants attached
func (r *ProductRepository) ListWithVariants(ctx context.Context) ([]*Product, error) {
	var products []*Product
	productQuery := `SELECT id, name, min_stock_level, created_at FROM products ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &products, productQuery); err != nil {
		return nil, errors.Persistence(err)
	}

	var variants []*ProductVariant
	variantQuery := `
		SELECT id, product_id, sku, cost_price, selling_price, quantity, min_quantity, max_quantity
		FROM product_variants
		ORDER BY product_id, sku
	`
	if err := r.db.SelectContext(ctx, &variants, variantQuery); err != nil {
		return nil, errors.Persistence(err)
	}

	// Group variants by product for quick lookup
	variantMap := make(map[string][]*ProductVariant)
	for _, v := range variants {
		variantMap[v.ProductID] = append(variantMap[v.ProductID], v)
	}

	for _, p := range products {
		p.Variants = variantMap[p.ID]
	}

	return products, nil
}

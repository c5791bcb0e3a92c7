package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/database"
	"github.com/unitstock/unitstock-backend/pkg/logger"
	"github.com/unitstock/unitstock-backend/pkg/testutil"
)

func TestProductRepository_ListWithVariants(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewProductRepository(database.FromSqlx(mockDB.DB, logger.New("test", "test")))

	now := time.Now()
	mockDB.ExpectQuery("SELECT id, name, min_stock_level, created_at FROM products").
		WillReturnRows(testutil.MockRows("id", "name", "min_stock_level", "created_at").
			AddRow("prod-1", "iPhone 12", 5, now).
			AddRow("prod-2", "USB-C Cable", nil, now))

	mockDB.ExpectQuery("FROM product_variants").
		WillReturnRows(testutil.MockRows("id", "product_id", "sku", "cost_price", "selling_price", "quantity", "min_quantity", "max_quantity").
			AddRow("var-1", "prod-1", "IP12-64", 400.0, 600.0, 3, 2, nil).
			AddRow("var-2", "prod-1", "IP12-128", 450.0, 700.0, 1, nil, nil).
			AddRow("var-3", "prod-2", "USBC-1M", 2.0, 5.0, 40, 10, 100))

	products, err := repo.ListWithVariants(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "iPhone 12", products[0].Name)
	require.Len(t, products[0].Variants, 2)
	assert.Equal(t, "IP12-64", products[0].Variants[0].SKU)
	require.NotNil(t, products[0].Variants[0].MinQuantity)
	assert.Equal(t, 2, *products[0].Variants[0].MinQuantity)
	assert.Nil(t, products[0].Variants[1].MinQuantity)

	require.Len(t, products[1].Variants, 1)
	require.NotNil(t, products[1].Variants[0].MaxQuantity)
	assert.Equal(t, 100, *products[1].Variants[0].MaxQuantity)

	mockDB.ExpectationsWereMet(t)
}

package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"rms/internal/domain"
	"rms/internal/repos"
	"rms/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), repos.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func addProduct(t *testing.T, cat *services.CatalogService, sku string, priceCents int64, qty, reorder int) domain.Product {
	t.Helper()
	p, err := cat.CreateProduct(context.Background(), services.ProductInput{
		SKU:               sku,
		Name:              "Product " + sku,
		UnitPriceCents:    priceCents,
		QuantityAvailable: qty,
		ReorderLevel:      &reorder,
	})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, db *sqlx.DB, id int64) int {
	t.Helper()
	var qty int
	require.NoError(t, db.Get(&qty, `SELECT quantity_available FROM products WHERE id = ?`, id))
	return qty
}

func countSales(t *testing.T, db *sqlx.DB) (sales, items int) {
	t.Helper()
	require.NoError(t, db.Get(&sales, `SELECT COUNT(*) FROM sales`))
	require.NoError(t, db.Get(&items, `SELECT COUNT(*) FROM sale_items`))
	return sales, items
}

func newCustomerRepo(db *sqlx.DB) *repos.CustomerRepo { return repos.NewCustomerRepo(db) }

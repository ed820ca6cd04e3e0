package repos

import (
	"context"
	"database/sql"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

const productCols = `
    id, sku, name, unit_price_cents, quantity_available, reorder_level,
    supplier_id, created_at, updated_at`

type ProductRepo struct{ db sqlx.ExtContext }

// NewProductRepo accepts a *sqlx.DB or a *sqlx.Tx.
func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

// List returns products ordered by name; q filters on name or SKU.
func (r *ProductRepo) List(ctx context.Context, q string, limit, offset int) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? ESCAPE '!' OR LOWER(sku) LIKE ? ESCAPE '!')`
		pat := "%" + likeEscape(q) + "%"
		args = append(args, pat, pat)
	}
	query := `SELECT` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY name, id
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(query), args...)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`SELECT`+productCols+` FROM products WHERE id = ?`), id)
	return p, err
}

// BySKU returns sql.ErrNoRows when no product carries the SKU.
func (r *ProductRepo) BySKU(ctx context.Context, sku string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`SELECT`+productCols+` FROM products WHERE sku = ?`), sku)
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	ts := now()
	id, err := insertID(ctx, r.db, `
  INSERT INTO products(sku, name, unit_price_cents, quantity_available, reorder_level, supplier_id, created_at, updated_at)
  VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, p.UnitPriceCents, p.QuantityAvailable, p.ReorderLevel, p.SupplierID, ts, ts)
	if err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, ts, ts
	return nil
}

// Update overwrites every mutable column. Returns sql.ErrNoRows if the
// product is gone.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
  UPDATE products
  SET sku = ?, name = ?, unit_price_cents = ?, quantity_available = ?, reorder_level = ?,
      supplier_id = ?, updated_at = ?
  WHERE id = ?`),
		p.SKU, p.Name, p.UnitPriceCents, p.QuantityAvailable, p.ReorderLevel, p.SupplierID, ts, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	p.UpdatedAt = ts
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Sold reports whether any sale line references the product.
func (r *ProductRepo) Sold(ctx context.Context, id int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(`SELECT COUNT(*) FROM sale_items WHERE product_id = ?`), id)
	return n > 0, err
}

// LowStock lists products at or under their reorder level, or under
// threshold when one is given, lowest stock first.
func (r *ProductRepo) LowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	query := `SELECT` + productCols + ` FROM products WHERE quantity_available <= reorder_level`
	args := []any{}
	if threshold != nil {
		query = `SELECT` + productCols + ` FROM products WHERE quantity_available <= ?`
		args = append(args, *threshold)
	}
	query += ` ORDER BY quantity_available ASC, name`

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(query), args...)
	return out, err
}

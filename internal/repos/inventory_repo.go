package repos

import (
	"context"
	"errors"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrInsufficientStock is returned by Decrement when the guarded update
// matched no row.
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepo owns stock reads and writes. Bind it to a *sqlx.Tx for the
// sale flow so the lock and the decrement share one transaction.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// Lock re-reads the product and, on MySQL/Postgres, holds a row lock on it
// until the surrounding transaction ends.
func (r *InventoryRepo) Lock(ctx context.Context, productID int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p,
		r.db.Rebind(`SELECT`+productCols+` FROM products WHERE id = ?`+lockClause(r.db)), productID)
	return p, err
}

// Decrement atomically subtracts "by" units if enough stock exists.
func (r *InventoryRepo) Decrement(ctx context.Context, productID int64, by int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET quantity_available = quantity_available - ?, updated_at = ?
		WHERE id = ? AND quantity_available >= ?
	`), by, now(), productID, by)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

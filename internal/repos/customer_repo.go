package repos

import (
	"context"
	"database/sql"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

const customerCols = `id, name, phone, COALESCE(email, '') AS email, created_at`

type CustomerRepo struct{ db sqlx.ExtContext }

func NewCustomerRepo(db sqlx.ExtContext) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
  SELECT `+customerCols+`
  FROM customers
  ORDER BY name, id
  LIMIT ? OFFSET ?
`), limit, offset)
	return out, err
}

func (r *CustomerRepo) Get(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`SELECT `+customerCols+` FROM customers WHERE id = ?`), id)
	return c, err
}

func (r *CustomerRepo) ByEmail(ctx context.Context, email string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`SELECT `+customerCols+` FROM customers WHERE LOWER(email) = LOWER(?)`), email)
	return c, err
}

// Create stores an empty email as NULL so the unique index only covers
// real addresses.
func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	ts := now()
	id, err := insertID(ctx, r.db, `
  INSERT INTO customers(name, phone, email, created_at) VALUES(?, ?, ?, ?)`,
		c.Name, c.Phone, nullIfEmpty(c.Email), ts)
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt = id, ts
	return nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
  UPDATE customers SET name = ?, phone = ?, email = ? WHERE id = ?`),
		c.Name, c.Phone, nullIfEmpty(c.Email), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM customers WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CustomerRepo) HasSales(ctx context.Context, id int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(`SELECT COUNT(*) FROM sales WHERE customer_id = ?`), id)
	return n > 0, err
}

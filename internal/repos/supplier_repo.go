package repos

import (
	"context"
	"database/sql"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

type SupplierRepo struct{ db sqlx.ExtContext }

func NewSupplierRepo(db sqlx.ExtContext) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	out := []domain.Supplier{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
  SELECT id, name, contact_name, phone, email, address, created_at
  FROM suppliers
  ORDER BY name, id
  LIMIT ? OFFSET ?
`), limit, offset)
	return out, err
}

func (r *SupplierRepo) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	var s domain.Supplier
	err := sqlx.GetContext(ctx, r.db, &s, r.db.Rebind(`
  SELECT id, name, contact_name, phone, email, address, created_at
  FROM suppliers
  WHERE id = ?
`), id)
	return s, err
}

func (r *SupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	ts := now()
	id, err := insertID(ctx, r.db, `
  INSERT INTO suppliers(name, contact_name, phone, email, address, created_at)
  VALUES(?, ?, ?, ?, ?, ?)`,
		s.Name, s.ContactName, s.Phone, s.Email, s.Address, ts)
	if err != nil {
		return err
	}
	s.ID, s.CreatedAt = id, ts
	return nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
  UPDATE suppliers
  SET name = ?, contact_name = ?, phone = ?, email = ?, address = ?
  WHERE id = ?`), s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete detaches the supplier's products and removes the supplier. Run it
// on a transaction so both statements land together.
func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`
  UPDATE products SET supplier_id = NULL, updated_at = ? WHERE supplier_id = ?`), now(), id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM suppliers WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

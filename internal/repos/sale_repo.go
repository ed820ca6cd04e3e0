package repos

import (
	"context"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

const saleCols = `id, receipt_no, customer_id, subtotal_cents, tax_cents, total_cents, created_at`

type SaleRepo struct{ db sqlx.ExtContext }

func NewSaleRepo(db sqlx.ExtContext) *SaleRepo { return &SaleRepo{db: db} }

// Insert writes the sale header and its line items; s.ID and every item's
// ID/SaleID are filled in. Call it on the sale transaction.
func (r *SaleRepo) Insert(ctx context.Context, s *domain.Sale) error {
	id, err := insertID(ctx, r.db, `
	  INSERT INTO sales(receipt_no, customer_id, subtotal_cents, tax_cents, total_cents, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)`,
		s.ReceiptNo, s.CustomerID, s.SubtotalCents, s.TaxCents, s.TotalCents, s.CreatedAt)
	if err != nil {
		return err
	}
	s.ID = id

	for i := range s.Items {
		it := &s.Items[i]
		it.SaleID = id
		itemID, err := insertID(ctx, r.db, `
		  INSERT INTO sale_items(sale_id, product_id, unit_price_cents, quantity, line_total_cents)
		  VALUES(?, ?, ?, ?, ?)`,
			id, it.ProductID, it.UnitPriceCents, it.Quantity, it.LineTotalCents)
		if err != nil {
			return err
		}
		it.ID = itemID
	}
	return nil
}

func (r *SaleRepo) Get(ctx context.Context, id int64) (domain.Sale, error) {
	var s domain.Sale
	if err := sqlx.GetContext(ctx, r.db, &s, r.db.Rebind(`SELECT `+saleCols+` FROM sales WHERE id = ?`), id); err != nil {
		return domain.Sale{}, err
	}
	byID, err := r.items(ctx, []int64{id})
	if err != nil {
		return domain.Sale{}, err
	}
	s.Items = byID[id]
	if s.Items == nil {
		s.Items = []domain.SaleItem{}
	}
	one := []domain.Sale{s}
	if err := r.attachCustomers(ctx, one); err != nil {
		return domain.Sale{}, err
	}
	return one[0], nil
}

// ListLatest returns sales newest first, each with its line items.
func (r *SaleRepo) ListLatest(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	out := []domain.Sale{}
	if err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+saleCols+`
		FROM sales
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`), limit, offset); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, len(out))
	for i, s := range out {
		ids[i] = s.ID
	}
	byID, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = byID[out[i].ID]
		if out[i].Items == nil {
			out[i].Items = []domain.SaleItem{}
		}
	}
	if err := r.attachCustomers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachCustomers fills Customer on every sale that has a customer_id.
func (r *SaleRepo) attachCustomers(ctx context.Context, sales []domain.Sale) error {
	ids := []int64{}
	for _, s := range sales {
		if s.CustomerID != nil {
			ids = append(ids, *s.CustomerID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`SELECT `+customerCols+` FROM customers WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	var rows []domain.Customer
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return err
	}
	byID := make(map[int64]domain.Customer, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	for i := range sales {
		if sales[i].CustomerID == nil {
			continue
		}
		if c, ok := byID[*sales[i].CustomerID]; ok {
			sales[i].Customer = &c
		}
	}
	return nil
}

func (r *SaleRepo) items(ctx context.Context, saleIDs []int64) (map[int64][]domain.SaleItem, error) {
	query, args, err := sqlx.In(`
		SELECT si.id, si.sale_id, si.product_id, p.name AS product_name,
		       si.unit_price_cents, si.quantity, si.line_total_cents
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id IN (?)
		ORDER BY si.sale_id, si.id
	`, saleIDs)
	if err != nil {
		return nil, err
	}
	var rows []domain.SaleItem
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[int64][]domain.SaleItem, len(saleIDs))
	for _, it := range rows {
		byID[it.SaleID] = append(byID[it.SaleID], it)
	}
	return byID, nil
}

package repos

import (
	"context"

	"rms/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReportRepo struct{ db sqlx.ExtContext }

func NewReportRepo(db sqlx.ExtContext) *ReportRepo { return &ReportRepo{db: db} }

// SalesBetween aggregates sales whose created_at lies in [from, to]; both
// bounds are stored-format timestamps.
func (r *ReportRepo) SalesBetween(ctx context.Context, from, to string) (revenue, count int64, err error) {
	var row struct {
		Revenue int64 `db:"revenue"`
		Count   int64 `db:"cnt"`
	}
	err = sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(`
		SELECT COALESCE(SUM(total_cents), 0) AS revenue, COUNT(id) AS cnt
		FROM sales
		WHERE created_at >= ? AND created_at <= ?
	`), from, to)
	return row.Revenue, row.Count, err
}

// Dashboard gathers the counters shown on the landing view; from/to bound
// "today".
func (r *ReportRepo) Dashboard(ctx context.Context, from, to string) (domain.Dashboard, error) {
	var d domain.Dashboard
	err := sqlx.GetContext(ctx, r.db, &d, r.db.Rebind(`
		SELECT
		  (SELECT COUNT(*) FROM products) AS products,
		  (SELECT COUNT(*) FROM suppliers) AS suppliers,
		  (SELECT COUNT(*) FROM customers) AS customers,
		  (SELECT COUNT(*) FROM products WHERE quantity_available <= reorder_level) AS low_stock,
		  (SELECT COALESCE(SUM(total_cents), 0) FROM sales WHERE created_at >= ? AND created_at <= ?) AS today_revenue_cents,
		  (SELECT COUNT(*) FROM sales WHERE created_at >= ? AND created_at <= ?) AS today_sales
	`), from, to, from, to)
	return d, err
}

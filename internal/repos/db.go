package repos

import (
	"context"
	"fmt"
	"log"
	"time"

	"rms/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"
)

const retryDelay = 2 * time.Second

type Options struct {
	Driver  string // sqlite | mysql | postgres
	DSN     string
	Retries int
	Seed    bool
}

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// OpenDB connects (retrying while the server comes up), creates the schema
// and optionally seeds demo rows.
func OpenDB(ctx context.Context, opt Options) (*sqlx.DB, error) {
	d, ok := dialects[opt.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported db driver %q", opt.Driver)
	}
	dsn := opt.DSN
	if opt.Driver == "mysql" {
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		// statements are sent one by one and timestamps are stored as text
		mc.MultiStatements = false
		mc.ParseTime = false
		// RowsAffected must count matched rows, not changed rows
		mc.ClientFoundRows = true
		dsn = mc.FormatDSN()
	}
	if opt.Retries < 1 {
		opt.Retries = 1
	}

	db, err := connect(ctx, d.sqlDriver, dsn, opt.Retries)
	if err != nil {
		return nil, err
	}
	if opt.Driver == "sqlite" {
		// one writer; also keeps ":memory:" a single shared database
		db.SetMaxOpenConns(1)
	}

	if err := ensureSchema(ctx, db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	if opt.Seed {
		if err := seedIfEmpty(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return db, nil
}

func connect(ctx context.Context, driver, dsn string, retries int) (*sqlx.DB, error) {
	lim := rate.NewLimiter(rate.Every(retryDelay), 1)
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
		db, err := sqlx.Open(driver, dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			db.Close()
		}
		lastErr = err
		log.Printf("[db] connect attempt %d/%d failed: %v", attempt, retries, err)
	}
	return nil, fmt.Errorf("connect %s: %w", driver, lastErr)
}

func ensureSchema(ctx context.Context, db *sqlx.DB, d dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InTx runs fn inside a transaction, committing only when fn returns nil.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func now() string { return time.Now().UTC().Format(domain.TimeLayout) }

func seedIfEmpty(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo suppliers/products/customers")

	return InTx(ctx, db, func(tx *sqlx.Tx) error {
		ts := now()
		supplierID, err := insertID(ctx, tx, `
			INSERT INTO suppliers(name, contact_name, phone, email, address, created_at)
			VALUES(?, ?, ?, ?, ?, ?)`,
			"Acme Wholesale", "Dana Ortiz", "555-0100", "orders@acme.test", "12 Depot Rd", ts)
		if err != nil {
			return err
		}
		products := []struct {
			sku, name    string
			price        int64
			qty, reorder int
		}{
			{"BEV-COLA-330", "Cola 330ml", 125, 48, 12},
			{"SNK-CHIPS-150", "Potato Chips 150g", 299, 20, 10},
			{"HSH-SOAP-100", "Hand Soap 100ml", 450, 6, 8},
			{"STN-PEN-BLK", "Ballpoint Pen (Black)", 99, 0, 25},
		}
		for _, p := range products {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO products(sku, name, unit_price_cents, quantity_available, reorder_level, supplier_id, created_at, updated_at)
				VALUES(?, ?, ?, ?, ?, ?, ?, ?)`),
				p.sku, p.name, p.price, p.qty, p.reorder, supplierID, ts, ts); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO customers(name, phone, email, created_at) VALUES(?, ?, ?, ?)`),
			"Walk-in Regular", "555-0199", "regular@shop.test", ts)
		return err
	})
}

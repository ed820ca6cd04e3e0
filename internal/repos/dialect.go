package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type dialect struct {
	sqlDriver string
	schema    []string
}

var dialects = map[string]dialect{
	"sqlite":   {sqlDriver: "sqlite", schema: sqliteSchema},
	"mysql":    {sqlDriver: "mysql", schema: mysqlSchema},
	"postgres": {sqlDriver: "postgres", schema: postgresSchema},
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS suppliers(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  contact_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_suppliers_name ON suppliers(name)`,
	`CREATE TABLE IF NOT EXISTS customers(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  email TEXT UNIQUE,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)`,
	`CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL CHECK (unit_price_cents >= 0),
  quantity_available INTEGER NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
  reorder_level INTEGER NOT NULL DEFAULT 10 CHECK (reorder_level >= 0),
  supplier_id INTEGER NULL REFERENCES suppliers(id),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	`CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id)`,
	`CREATE TABLE IF NOT EXISTS sales(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  receipt_no TEXT NOT NULL UNIQUE,
  customer_id INTEGER NULL REFERENCES customers(id),
  subtotal_cents INTEGER NOT NULL,
  tax_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sale_id INTEGER NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id),
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  line_total_cents INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items(product_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS; indexes live in the table DDL.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(100) NOT NULL,
  contact_name VARCHAR(100) NOT NULL DEFAULT '',
  phone VARCHAR(50) NOT NULL DEFAULT '',
  email VARCHAR(100) NOT NULL DEFAULT '',
  address VARCHAR(255) NOT NULL DEFAULT '',
  created_at VARCHAR(19) NOT NULL,
  INDEX idx_suppliers_name (name)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS customers(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(100) NOT NULL,
  phone VARCHAR(50) NOT NULL DEFAULT '',
  email VARCHAR(100) NULL UNIQUE,
  created_at VARCHAR(19) NOT NULL,
  INDEX idx_customers_name (name)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS products(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  sku VARCHAR(100) NOT NULL UNIQUE,
  name VARCHAR(100) NOT NULL,
  unit_price_cents BIGINT NOT NULL CHECK (unit_price_cents >= 0),
  quantity_available INT NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
  reorder_level INT NOT NULL DEFAULT 10 CHECK (reorder_level >= 0),
  supplier_id BIGINT NULL,
  created_at VARCHAR(19) NOT NULL,
  updated_at VARCHAR(19) NOT NULL,
  INDEX idx_products_name (name),
  FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS sales(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  receipt_no VARCHAR(36) NOT NULL UNIQUE,
  customer_id BIGINT NULL,
  subtotal_cents BIGINT NOT NULL,
  tax_cents BIGINT NOT NULL,
  total_cents BIGINT NOT NULL,
  created_at VARCHAR(19) NOT NULL,
  INDEX idx_sales_created_at (created_at),
  FOREIGN KEY (customer_id) REFERENCES customers(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS sale_items(
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  sale_id BIGINT NOT NULL,
  product_id BIGINT NOT NULL,
  unit_price_cents BIGINT NOT NULL,
  quantity INT NOT NULL CHECK (quantity > 0),
  line_total_cents BIGINT NOT NULL,
  FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE,
  FOREIGN KEY (product_id) REFERENCES products(id)
) ENGINE=InnoDB`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers(
  id BIGSERIAL PRIMARY KEY,
  name VARCHAR(100) NOT NULL,
  contact_name VARCHAR(100) NOT NULL DEFAULT '',
  phone VARCHAR(50) NOT NULL DEFAULT '',
  email VARCHAR(100) NOT NULL DEFAULT '',
  address VARCHAR(255) NOT NULL DEFAULT '',
  created_at VARCHAR(19) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_suppliers_name ON suppliers(name)`,
	`CREATE TABLE IF NOT EXISTS customers(
  id BIGSERIAL PRIMARY KEY,
  name VARCHAR(100) NOT NULL,
  phone VARCHAR(50) NOT NULL DEFAULT '',
  email VARCHAR(100) UNIQUE,
  created_at VARCHAR(19) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)`,
	`CREATE TABLE IF NOT EXISTS products(
  id BIGSERIAL PRIMARY KEY,
  sku VARCHAR(100) NOT NULL UNIQUE,
  name VARCHAR(100) NOT NULL,
  unit_price_cents BIGINT NOT NULL CHECK (unit_price_cents >= 0),
  quantity_available INTEGER NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
  reorder_level INTEGER NOT NULL DEFAULT 10 CHECK (reorder_level >= 0),
  supplier_id BIGINT NULL REFERENCES suppliers(id),
  created_at VARCHAR(19) NOT NULL,
  updated_at VARCHAR(19) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	`CREATE TABLE IF NOT EXISTS sales(
  id BIGSERIAL PRIMARY KEY,
  receipt_no VARCHAR(36) NOT NULL UNIQUE,
  customer_id BIGINT NULL REFERENCES customers(id),
  subtotal_cents BIGINT NOT NULL,
  tax_cents BIGINT NOT NULL,
  total_cents BIGINT NOT NULL,
  created_at VARCHAR(19) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_items(
  id BIGSERIAL PRIMARY KEY,
  sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id BIGINT NOT NULL REFERENCES products(id),
  unit_price_cents BIGINT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  line_total_cents BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)`,
}

// insertID runs an INSERT and returns the generated id. MySQL has no
// RETURNING clause, so it goes through LastInsertId.
func insertID(ctx context.Context, db sqlx.ExtContext, query string, args ...any) (int64, error) {
	if db.DriverName() == "mysql" {
		res, err := db.ExecContext(ctx, db.Rebind(query), args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(query+` RETURNING id`), args...).Scan(&id)
	return id, err
}

// lockClause is appended to a SELECT that must hold the row until commit.
// SQLite has no row locks; the single writer connection serializes instead.
func lockClause(db sqlx.ExtContext) string {
	if db.DriverName() == "sqlite" {
		return ""
	}
	return ` FOR UPDATE`
}

// IsUniqueViolation reports whether err is a unique/primary key violation
// from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
	}
	return false
}

// IsForeignKeyViolation reports whether err is a referential integrity
// failure (row still referenced, or reference to a missing row).
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1451 || me.Number == 1452
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23503"
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY"))
	}
	return false
}

// MySQL reads backslash inside string literals, so '!' is the LIKE escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likeEscape makes % and _ literal inside a LIKE ... ESCAPE '!' pattern.
func likeEscape(s string) string { return likeEscaper.Replace(s) }

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

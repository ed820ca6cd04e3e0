package domain

// Money fields are integer cents. Timestamps are UTC "2006-01-02 15:04:05".

type Supplier struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ContactName string `db:"contact_name" json:"contact_name"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
	Address     string `db:"address" json:"address"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID                int64     `db:"id" json:"id"`
	SKU               string    `db:"sku" json:"sku"`
	Name              string    `db:"name" json:"name"`
	UnitPriceCents    int64     `db:"unit_price_cents" json:"unit_price_cents"`
	QuantityAvailable int       `db:"quantity_available" json:"quantity_available"`
	ReorderLevel      int       `db:"reorder_level" json:"reorder_level"`
	SupplierID        *int64    `db:"supplier_id" json:"supplier_id"`
	CreatedAt         string    `db:"created_at" json:"created_at"`
	UpdatedAt         string    `db:"updated_at" json:"updated_at"`
	Supplier          *Supplier `db:"-" json:"supplier,omitempty"`
}

// LowStock reports whether the product is at or under its reorder level.
func (p Product) LowStock() bool { return p.QuantityAvailable <= p.ReorderLevel }

type Sale struct {
	ID            int64      `db:"id" json:"id"`
	ReceiptNo     string     `db:"receipt_no" json:"receipt_no"`
	CustomerID    *int64     `db:"customer_id" json:"customer_id"`
	SubtotalCents int64      `db:"subtotal_cents" json:"subtotal_cents"`
	TaxCents      int64      `db:"tax_cents" json:"tax_cents"`
	TotalCents    int64      `db:"total_cents" json:"total_cents"`
	CreatedAt     string     `db:"created_at" json:"created_at"`
	Items         []SaleItem `db:"-" json:"items"`
	Customer      *Customer  `db:"-" json:"customer,omitempty"`
}

type SaleItem struct {
	ID             int64  `db:"id" json:"id"`
	SaleID         int64  `db:"sale_id" json:"sale_id"`
	ProductID      int64  `db:"product_id" json:"product_id"`
	ProductName    string `db:"product_name" json:"product_name"`
	UnitPriceCents int64  `db:"unit_price_cents" json:"unit_price_cents"`
	Quantity       int    `db:"quantity" json:"quantity"`
	LineTotalCents int64  `db:"line_total_cents" json:"line_total_cents"`
}

// CartLine is one requested (product, quantity) pair of a sale.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type SalesSummary struct {
	FromDate               string `json:"from_date"`
	ToDate                 string `json:"to_date"`
	TotalRevenueCents      int64  `json:"total_revenue_cents"`
	TransactionCount       int64  `json:"transaction_count"`
	AverageOrderValueCents int64  `json:"average_order_value_cents"`
}

type Dashboard struct {
	Products          int64 `db:"products" json:"products"`
	Suppliers         int64 `db:"suppliers" json:"suppliers"`
	Customers         int64 `db:"customers" json:"customers"`
	LowStock          int64 `db:"low_stock" json:"low_stock"`
	TodayRevenueCents int64 `db:"today_revenue_cents" json:"today_revenue_cents"`
	TodaySales        int64 `db:"today_sales" json:"today_sales"`
}

// Operator is the single hard-coded till user.
type Operator struct {
	Username string `json:"username"`
}

// TimeLayout is the stored timestamp format; it sorts lexicographically.
const TimeLayout = "2006-01-02 15:04:05"

package services

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"rms/internal/domain"
	"rms/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat sales tax applied to every subtotal.
const DefaultTaxRate = 0.08

type SaleRequest struct {
	CustomerID *int64            `json:"customer_id"`
	Items      []domain.CartLine `json:"items"`
}

type SaleService struct {
	DB      *sqlx.DB
	Sales   *repos.SaleRepo
	TaxRate decimal.Decimal
	Now     func() time.Time
}

func NewSaleService(db *sqlx.DB, taxRate float64) *SaleService {
	return &SaleService{
		DB:      db,
		Sales:   repos.NewSaleRepo(db),
		TaxRate: decimal.NewFromFloat(taxRate),
		Now:     time.Now,
	}
}

// Tax truncates subtotal × rate to whole cents.
func (s *SaleService) Tax(subtotalCents int64) int64 {
	return decimal.NewFromInt(subtotalCents).Mul(s.TaxRate).Floor().IntPart()
}

// Complete records a sale atomically. Every line's stock is re-read inside
// the transaction; if any line cannot be filled nothing is written and an
// *InsufficientStockError names the product.
func (s *SaleService) Complete(ctx context.Context, req SaleRequest) (domain.Sale, error) {
	if len(req.Items) == 0 {
		return domain.Sale{}, invalid("items", "sale must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return domain.Sale{}, invalid("quantity", fmt.Sprintf("item quantity must be positive: product %d", it.ProductID))
		}
		if it.Quantity > maxQuantity {
			return domain.Sale{}, invalid("quantity", fmt.Sprintf("item quantity must be at most %d: product %d", maxQuantity, it.ProductID))
		}
	}

	sale := domain.Sale{
		ReceiptNo:  uuid.NewString(),
		CustomerID: req.CustomerID,
		CreatedAt:  s.Now().UTC().Format(domain.TimeLayout),
	}

	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		inv := repos.NewInventoryRepo(tx)

		if req.CustomerID != nil {
			c, err := repos.NewCustomerRepo(tx).Get(ctx, *req.CustomerID)
			if err != nil {
				return storeErr("load customer", "customer", *req.CustomerID, err)
			}
			sale.Customer = &c
		}

		// Rows are locked in product id order so concurrent carts cannot
		// wait on each other in a cycle.
		order := make([]int, len(req.Items))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(req.Items[a].ProductID, req.Items[b].ProductID)
		})

		locked := make([]domain.Product, len(req.Items))
		for _, i := range order {
			line := req.Items[i]
			p, err := inv.Lock(ctx, line.ProductID)
			if err != nil {
				return storeErr("load product", "product", line.ProductID, err)
			}
			if p.QuantityAvailable < line.Quantity {
				return stockErr(p, line.Quantity)
			}
			if err := inv.Decrement(ctx, p.ID, line.Quantity); err != nil {
				if errors.Is(err, repos.ErrInsufficientStock) {
					return stockErr(p, line.Quantity)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
			locked[i] = p
		}

		var subtotal int64
		for i, line := range req.Items {
			p := locked[i]
			lineTotal, ok := mulCents(p.UnitPriceCents, line.Quantity)
			if ok {
				subtotal, ok = addCents(subtotal, lineTotal)
			}
			if !ok {
				return invalid("items", "sale total is too large")
			}
			sale.Items = append(sale.Items, domain.SaleItem{
				ProductID:      p.ID,
				ProductName:    p.Name,
				UnitPriceCents: p.UnitPriceCents,
				Quantity:       line.Quantity,
				LineTotalCents: lineTotal,
			})
		}

		sale.SubtotalCents = subtotal
		sale.TaxCents = s.Tax(subtotal)
		total, ok := addCents(subtotal, sale.TaxCents)
		if !ok {
			return invalid("items", "sale total is too large")
		}
		sale.TotalCents = total

		if err := repos.NewSaleRepo(tx).Insert(ctx, &sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

// mulCents and addCents report false instead of wrapping past int64.
func mulCents(price int64, qty int) (int64, bool) {
	if qty > 0 && price > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return price * int64(qty), true
}

func addCents(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

func stockErr(p domain.Product, requested int) error {
	return &InsufficientStockError{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Requested: requested,
		Available: p.QuantityAvailable,
	}
}

func (s *SaleService) Get(ctx context.Context, id int64) (domain.Sale, error) {
	sale, err := s.Sales.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, notFound("sale", id)
		}
		return domain.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (s *SaleService) List(ctx context.Context, skip, limit int) ([]domain.Sale, error) {
	out, err := s.Sales.ListLatest(ctx, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}

package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rms/internal/domain"
	"rms/internal/repos"
	"rms/internal/validate"

	"github.com/jmoiron/sqlx"
)

const defaultReorderLevel = 10

// Upper bounds for product fields; they keep price × quantity well inside int64.
const (
	maxPriceCents = 10_000_000_000
	maxQuantity   = 1_000_000
)

// ProductInput is the create payload. ReorderLevel defaults to 10.
type ProductInput struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	QuantityAvailable int    `json:"quantity_available"`
	ReorderLevel      *int   `json:"reorder_level"`
	SupplierID        *int64 `json:"supplier_id"`
}

// ProductPatch is a partial update; nil fields are left alone. SupplierID
// also tells an explicit null (detach) apart from an absent key.
type ProductPatch struct {
	SKU               *string    `json:"sku"`
	Name              *string    `json:"name"`
	UnitPriceCents    *int64     `json:"unit_price_cents"`
	QuantityAvailable *int       `json:"quantity_available"`
	ReorderLevel      *int       `json:"reorder_level"`
	SupplierID        NullableID `json:"supplier_id"`
}

// NullableID is an optional reference field in a patch body.
type NullableID struct {
	Set   bool
	Value *int64
}

// SetID returns a NullableID that assigns id; nil clears the reference.
func SetID(id *int64) NullableID { return NullableID{Set: true, Value: id} }

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type CatalogService struct {
	DB        *sqlx.DB
	Prods     *repos.ProductRepo
	Suppliers *repos.SupplierRepo
}

func NewCatalogService(db *sqlx.DB) *CatalogService {
	return &CatalogService{DB: db, Prods: repos.NewProductRepo(db), Suppliers: repos.NewSupplierRepo(db)}
}

func (s *CatalogService) ListProducts(ctx context.Context, q string, skip, limit int) ([]domain.Product, error) {
	q = strings.ToLower(q)
	out, err := s.Prods.List(ctx, q, limit, skip)
	if err != nil {
		return nil, storeErr("list products", "product", 0, err)
	}
	return out, nil
}

// GetProduct returns the product with its supplier attached.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return domain.Product{}, storeErr("get product", "product", id, err)
	}
	if p.SupplierID != nil {
		sup, err := s.Suppliers.Get(ctx, *p.SupplierID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, storeErr("get product supplier", "supplier", *p.SupplierID, err)
		}
		if err == nil {
			p.Supplier = &sup
		}
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	p := domain.Product{
		SKU:               in.SKU,
		Name:              in.Name,
		UnitPriceCents:    in.UnitPriceCents,
		QuantityAvailable: in.QuantityAvailable,
		ReorderLevel:      defaultReorderLevel,
		SupplierID:        in.SupplierID,
	}
	if in.ReorderLevel != nil {
		p.ReorderLevel = *in.ReorderLevel
	}
	if err := s.checkProduct(ctx, s.Prods, s.Suppliers, &p); err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Create(ctx, &p); err != nil {
		return domain.Product{}, storeErr("create product", "product", 0, err)
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (domain.Product, error) {
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return domain.Product{}, storeErr("update product", "product", id, err)
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.UnitPriceCents != nil {
		p.UnitPriceCents = *patch.UnitPriceCents
	}
	if patch.QuantityAvailable != nil {
		p.QuantityAvailable = *patch.QuantityAvailable
	}
	if patch.ReorderLevel != nil {
		p.ReorderLevel = *patch.ReorderLevel
	}
	if patch.SupplierID.Set {
		p.SupplierID = patch.SupplierID.Value
	}
	if err := s.checkProduct(ctx, s.Prods, s.Suppliers, &p); err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Update(ctx, &p); err != nil {
		return domain.Product{}, storeErr("update product", "product", id, err)
	}
	return p, nil
}

// DeleteProduct refuses products that appear on recorded sales.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.Prods.Get(ctx, id); err != nil {
		return storeErr("delete product", "product", id, err)
	}
	sold, err := s.Prods.Sold(ctx, id)
	if err != nil {
		return storeErr("delete product", "product", id, err)
	}
	if sold {
		return conflict("cannot delete product, it is associated with existing sales")
	}
	return storeErr("delete product", "product", id, s.Prods.Delete(ctx, id))
}

// checkProduct normalizes and validates p in place. A product keeping its
// own SKU is not a duplicate.
func (s *CatalogService) checkProduct(ctx context.Context, prods *repos.ProductRepo, sups *repos.SupplierRepo, p *domain.Product) error {
	var ok bool
	if p.SKU, ok = validate.SKU(p.SKU); !ok {
		return invalid("sku", "required; letters, digits, '.', '_' or '-' (max 64)")
	}
	if p.Name, ok = validate.Name(p.Name); !ok {
		return invalid("name", "required, at most 100 characters")
	}
	if p.UnitPriceCents < 0 || p.UnitPriceCents > maxPriceCents {
		return invalid("unit_price_cents", fmt.Sprintf("must be between 0 and %d", int64(maxPriceCents)))
	}
	if p.QuantityAvailable < 0 || p.QuantityAvailable > maxQuantity {
		return invalid("quantity_available", fmt.Sprintf("must be between 0 and %d", maxQuantity))
	}
	if p.ReorderLevel < 0 || p.ReorderLevel > maxQuantity {
		return invalid("reorder_level", fmt.Sprintf("must be between 0 and %d", maxQuantity))
	}

	existing, err := prods.BySKU(ctx, p.SKU)
	switch {
	case err == nil && existing.ID != p.ID:
		return conflict("product with this SKU already exists")
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return storeErr("check sku", "product", p.ID, err)
	}

	if p.SupplierID != nil {
		if _, err := sups.Get(ctx, *p.SupplierID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invalid("supplier_id", "unknown supplier")
			}
			return storeErr("check supplier", "supplier", *p.SupplierID, err)
		}
	}
	return nil
}

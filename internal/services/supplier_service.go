package services

import (
	"context"

	"rms/internal/domain"
	"rms/internal/repos"
	"rms/internal/validate"

	"github.com/jmoiron/sqlx"
)

type SupplierInput struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type SupplierService struct {
	DB        *sqlx.DB
	Suppliers *repos.SupplierRepo
}

func NewSupplierService(db *sqlx.DB) *SupplierService {
	return &SupplierService{DB: db, Suppliers: repos.NewSupplierRepo(db)}
}

func (s *SupplierService) List(ctx context.Context, skip, limit int) ([]domain.Supplier, error) {
	out, err := s.Suppliers.List(ctx, limit, skip)
	return out, storeErr("list suppliers", "supplier", 0, err)
}

func (s *SupplierService) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	sup, err := s.Suppliers.Get(ctx, id)
	return sup, storeErr("get supplier", "supplier", id, err)
}

func (s *SupplierService) Create(ctx context.Context, in SupplierInput) (domain.Supplier, error) {
	sup, err := supplierFrom(in)
	if err != nil {
		return domain.Supplier{}, err
	}
	if err := s.Suppliers.Create(ctx, &sup); err != nil {
		return domain.Supplier{}, storeErr("create supplier", "supplier", 0, err)
	}
	return sup, nil
}

func (s *SupplierService) Update(ctx context.Context, id int64, in SupplierInput) (domain.Supplier, error) {
	sup, err := supplierFrom(in)
	if err != nil {
		return domain.Supplier{}, err
	}
	sup.ID = id
	if err := s.Suppliers.Update(ctx, &sup); err != nil {
		return domain.Supplier{}, storeErr("update supplier", "supplier", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes the supplier; its products stay, with no supplier.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		return repos.NewSupplierRepo(tx).Delete(ctx, id)
	})
	return storeErr("delete supplier", "supplier", id, err)
}

func supplierFrom(in SupplierInput) (domain.Supplier, error) {
	var (
		sup domain.Supplier
		ok  bool
	)
	if sup.Name, ok = validate.Name(in.Name); !ok {
		return sup, invalid("name", "required, at most 100 characters")
	}
	if sup.ContactName, ok = validate.Text(in.ContactName, 100); !ok {
		return sup, invalid("contact_name", "at most 100 characters")
	}
	if sup.Phone, ok = validate.OptionalPhone(in.Phone); !ok {
		return sup, invalid("phone", "digits, spaces, +, -, ( ) only")
	}
	if sup.Email, ok = validate.OptionalEmail(in.Email); !ok {
		return sup, invalid("email", "not a valid address")
	}
	if sup.Address, ok = validate.Text(in.Address, 255); !ok {
		return sup, invalid("address", "at most 255 characters")
	}
	return sup, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"

	"rms/internal/domain"
	"rms/internal/repos"
	"rms/internal/validate"
)

type CustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type CustomerService struct {
	Customers *repos.CustomerRepo
}

func NewCustomerService(customers *repos.CustomerRepo) *CustomerService {
	return &CustomerService{Customers: customers}
}

func (s *CustomerService) List(ctx context.Context, skip, limit int) ([]domain.Customer, error) {
	out, err := s.Customers.List(ctx, limit, skip)
	return out, storeErr("list customers", "customer", 0, err)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := s.Customers.Get(ctx, id)
	return c, storeErr("get customer", "customer", id, err)
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	c, err := customerFrom(in)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.checkEmail(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	if err := s.Customers.Create(ctx, &c); err != nil {
		return domain.Customer{}, storeErr("create customer", "customer", 0, err)
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, in CustomerInput) (domain.Customer, error) {
	c, err := customerFrom(in)
	if err != nil {
		return domain.Customer{}, err
	}
	c.ID = id
	if err := s.checkEmail(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	if err := s.Customers.Update(ctx, &c); err != nil {
		return domain.Customer{}, storeErr("update customer", "customer", id, err)
	}
	return s.Get(ctx, id)
}

// Delete refuses customers referenced by sales; sales are immutable.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Customers.Get(ctx, id); err != nil {
		return storeErr("delete customer", "customer", id, err)
	}
	has, err := s.Customers.HasSales(ctx, id)
	if err != nil {
		return storeErr("delete customer", "customer", id, err)
	}
	if has {
		return conflict("cannot delete customer, it is associated with existing sales")
	}
	return storeErr("delete customer", "customer", id, s.Customers.Delete(ctx, id))
}

func (s *CustomerService) checkEmail(ctx context.Context, c domain.Customer) error {
	if c.Email == "" {
		return nil
	}
	existing, err := s.Customers.ByEmail(ctx, c.Email)
	switch {
	case err == nil && existing.ID != c.ID:
		return conflict("customer with this email already exists")
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return storeErr("check email", "customer", c.ID, err)
	}
	return nil
}

func customerFrom(in CustomerInput) (domain.Customer, error) {
	var (
		c  domain.Customer
		ok bool
	)
	if c.Name, ok = validate.Name(in.Name); !ok {
		return c, invalid("name", "required, at most 100 characters")
	}
	if c.Phone, ok = validate.OptionalPhone(in.Phone); !ok {
		return c, invalid("phone", "digits, spaces, +, -, ( ) only")
	}
	if c.Email, ok = validate.OptionalEmail(in.Email); !ok {
		return c, invalid("email", "not a valid address")
	}
	return c, nil
}

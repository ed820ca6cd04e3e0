package services

import (
	"database/sql"
	"errors"
	"fmt"

	"rms/internal/repos"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError is a client error on a single input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// InsufficientStockError aborts a sale; it names the product that could not
// be filled.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (SKU: %s): requested %d, available %d",
		e.Name, e.SKU, e.Requested, e.Available)
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func conflict(msg string) error { return fmt.Errorf("%s: %w", msg, ErrConflict) }

// storeErr maps repository errors onto the service taxonomy: missing rows
// become ErrNotFound, constraint hits become ErrConflict, anything else is
// wrapped as a storage failure.
func storeErr(op, what string, id int64, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound(what, id)
	case repos.IsUniqueViolation(err), repos.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %s: %w", op, err.Error(), ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

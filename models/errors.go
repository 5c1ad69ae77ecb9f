package models

import (
	"errors"
	"fmt"
)

// Error kinds returned by the core. Callers match them with errors.Is;
// operations wrap them with extra context where it helps.
var (
	ErrValidation          = errors.New("invalid input")
	ErrDuplicate           = errors.New("product already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPersistence         = errors.New("persistence failure")
)

// WrapPersistence tags a backend failure so every durable-write
// problem surfaces as the same kind of error.
func WrapPersistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

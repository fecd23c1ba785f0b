package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidReference       = errors.New("unknown item, ministry area or borrower reference")
	ErrInvalidDelta           = errors.New("quantity delta does not match before/after quantities")
	ErrInvalidTransactionType = errors.New("transaction type not allowed for this operation")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidTransfer        = errors.New("invalid transfer")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidDueDate         = errors.New("due date must be in the future")
	ErrAlreadyReturned        = errors.New("checkout already returned")
	ErrItemDeactivated        = errors.New("item is deactivated")
	ErrCheckoutsOutstanding   = errors.New("item has outstanding checkouts")
	ErrConcurrencyConflict    = errors.New("concurrent modification, retry")
	ErrPersistenceTimeout     = errors.New("persistence call timed out")
)

// InsufficientStockError carries the shortfall so callers can report
// requested vs. available instead of a bare failure.
type InsufficientStockError struct {
	ItemID    int32
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

package domain

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionTypeAddition    TransactionType = "ADDITION"
	TransactionTypeRemoval     TransactionType = "REMOVAL"
	TransactionTypeAdjustment  TransactionType = "ADJUSTMENT"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
)

// Transaction is one immutable ledger record of a quantity change. Records
// are only ever created; corrections are new ADJUSTMENT records, never edits.
type Transaction struct {
	ID               int32           `json:"id"`
	ItemID           int32           `json:"item_id"`
	Type             TransactionType `json:"type"`
	Quantity         int32           `json:"quantity"` // signed delta
	PreviousQuantity int32           `json:"previous_quantity"`
	NewQuantity      int32           `json:"new_quantity"`
	FromMinistryID   *int32          `json:"from_ministry_id,omitempty"`
	ToMinistryID     *int32          `json:"to_ministry_id,omitempty"`
	TransferGroup    string          `json:"transfer_group,omitempty"` // links the two legs of one transfer
	Reason           string          `json:"reason"`
	ConductedBy      int32           `json:"conducted_by"`
	CreatedOn        time.Time       `json:"created_on"`
}

// NewTransaction builds a ledger record and enforces the arithmetic identity
// new = previous + delta with both sides non-negative.
func NewTransaction(itemID int32, txType TransactionType, delta, previous int32, reason string, actorID int32) (*Transaction, error) {
	next := previous + delta
	if previous < 0 {
		return nil, fmt.Errorf("%w: previous quantity %d is negative", ErrInvalidDelta, previous)
	}
	if next < 0 {
		return nil, &InsufficientStockError{ItemID: itemID, Requested: -delta, Available: previous}
	}
	return &Transaction{
		ItemID:           itemID,
		Type:             txType,
		Quantity:         delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		ConductedBy:      actorID,
	}, nil
}

// Validate re-checks the identity on an already-populated record.
func (t *Transaction) Validate() error {
	if t.NewQuantity != t.PreviousQuantity+t.Quantity {
		return fmt.Errorf("%w: %d + %d != %d", ErrInvalidDelta, t.PreviousQuantity, t.Quantity, t.NewQuantity)
	}
	if t.PreviousQuantity < 0 || t.NewQuantity < 0 {
		return fmt.Errorf("%w: quantities must be non-negative", ErrInvalidDelta)
	}
	return nil
}

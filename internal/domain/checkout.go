package domain

import "time"

type CheckoutStatus string

const (
	CheckoutStatusReserved CheckoutStatus = "RESERVED"
	CheckoutStatusOverdue  CheckoutStatus = "OVERDUE"
	CheckoutStatusReturned CheckoutStatus = "RETURNED"
)

// Checkout is a temporary reservation of item quantity. It never carries a
// stored OVERDUE flag; overdue is derived from the clock so it cannot drift.
// The reservation shrinks available quantity but leaves the authoritative
// quantity and the ledger untouched until check-in posts a shortfall.
type Checkout struct {
	ID               int32          `json:"id"`
	ItemID           int32          `json:"item_id"`
	BorrowerID       int32          `json:"borrower_id"`
	Quantity         int32          `json:"quantity"`
	Purpose          string         `json:"purpose"`
	CheckedOutOn     time.Time      `json:"checked_out_on"`
	DueOn            time.Time      `json:"due_on"`
	CheckedInOn      *time.Time     `json:"checked_in_on,omitempty"`
	ReturnedQuantity *int32         `json:"returned_quantity,omitempty"`
	ReturnCondition  *ItemCondition `json:"return_condition,omitempty"`
}

func (c *Checkout) Outstanding() bool {
	return c.CheckedInOn == nil
}

// IsOverdue reports whether the checkout is past due and still outstanding.
func (c *Checkout) IsOverdue(now time.Time) bool {
	return c.CheckedInOn == nil && now.After(c.DueOn)
}

// Status derives the lifecycle state at the given instant.
func (c *Checkout) Status(now time.Time) CheckoutStatus {
	if c.CheckedInOn != nil {
		return CheckoutStatusReturned
	}
	if c.IsOverdue(now) {
		return CheckoutStatusOverdue
	}
	return CheckoutStatusReserved
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemCondition string

const (
	ConditionNew       ItemCondition = "NEW"
	ConditionExcellent ItemCondition = "EXCELLENT"
	ConditionGood      ItemCondition = "GOOD"
	ConditionFair      ItemCondition = "FAIR"
	ConditionPoor      ItemCondition = "POOR"
	ConditionDamaged   ItemCondition = "DAMAGED"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// Item is a tracked physical asset owned by a ministry area. Quantity is the
// authoritative stock count; every change to it is backed by exactly one
// Transaction record. One ministry area holds one Item record per asset
// identity (keyed by barcode, falling back to name), so sibling records in
// other ministries represent independent stock pools of the same asset.
type Item struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CategoryID      *int32          `json:"category_id,omitempty"`
	MinistryAreaID  int32           `json:"ministry_area_id"`
	Quantity        int32           `json:"quantity"`
	MinQuantity     int32           `json:"min_quantity"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	Condition       ItemCondition   `json:"condition"`
	Location        string          `json:"location"`
	Barcode         string          `json:"barcode"`
	AcquisitionDate *time.Time      `json:"acquisition_date,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
	DeactivatedOn   *time.Time      `json:"deactivated_on,omitempty"`
}

func (i *Item) Active() bool {
	return i.DeactivatedOn == nil
}

// TotalValue is the stored per-unit value multiplied by current quantity.
func (i *Item) TotalValue() decimal.Decimal {
	return i.UnitValue.Mul(decimal.NewFromInt32(i.Quantity))
}

// IsLowStock reports whether the item has fallen below its reorder threshold.
// Pure predicate, evaluated after quantity changes and by the alert sweep.
func IsLowStock(i *Item) bool {
	return i.Quantity < i.MinQuantity
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsLowStock(t *testing.T) {
	assert.True(t, IsLowStock(&Item{Quantity: 2, MinQuantity: 3}))
	// Strictly below: sitting at the threshold is fine.
	assert.False(t, IsLowStock(&Item{Quantity: 3, MinQuantity: 3}))
	assert.False(t, IsLowStock(&Item{Quantity: 4, MinQuantity: 3}))
	assert.False(t, IsLowStock(&Item{Quantity: 0, MinQuantity: 0}))
}

func TestItemActive(t *testing.T) {
	item := &Item{}
	assert.True(t, item.Active())
	at := time.Now()
	item.DeactivatedOn = &at
	assert.False(t, item.Active())
}

func TestItemTotalValue(t *testing.T) {
	item := &Item{Quantity: 4, UnitValue: decimal.RequireFromString("12.50")}
	assert.True(t, item.TotalValue().Equal(decimal.RequireFromString("50.00")))
}

func TestItemConditionValid(t *testing.T) {
	assert.True(t, ConditionGood.Valid())
	assert.True(t, ConditionDamaged.Valid())
	assert.False(t, ItemCondition("BROKEN").Valid())
	assert.False(t, ItemCondition("").Valid())
}

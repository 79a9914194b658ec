package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("zero quantities are dropped", func(t *testing.T) {
		o, err := NewOrder([]OrderLine{{ProductID: "s", Quantity: 1}, {ProductID: "m", Quantity: 0}, {ProductID: "l", Quantity: 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"s", "l"}, o.ProductIDs())
		assert.False(t, o.Contains("m"))
		assert.Equal(t, 2, o.Quantity("l"))
		assert.Len(t, o.Lines(), 2)
	})

	t.Run("duplicate product", func(t *testing.T) {
		_, err := NewOrder([]OrderLine{{ProductID: "s", Quantity: 1}, {ProductID: "s", Quantity: 2}})
		assert.ErrorIs(t, err, ErrDuplicateOrderLine)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := NewOrder([]OrderLine{{ProductID: "s", Quantity: -1}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("empty", func(t *testing.T) {
		o, err := NewOrder(nil)
		require.NoError(t, err)
		assert.True(t, o.IsEmpty())
	})
}

func TestSolidarityRequest(t *testing.T) {
	minus := decimal.NewFromInt(-10)
	plus := MustParseMoney("5")

	assert.False(t, SolidarityRequest{}.HasAdjustment())
	assert.False(t, SolidarityRequest{}.IsNegative())
	assert.True(t, SolidarityRequest{Percentage: &minus}.IsNegative())
	assert.False(t, SolidarityRequest{Absolute: &plus}.IsNegative())
	assert.ErrorIs(t, SolidarityRequest{Percentage: &minus, Absolute: &plus}.Validate(), ErrBothSolidarityPrices)
}

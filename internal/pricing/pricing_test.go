package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

func tier(min, price int64) types.PriceTier {
	return types.PriceTier{
		MinimumOrderQuantity: decimal.NewFromInt(min),
		UnitPrice:            types.Price{Value: decimal.NewFromInt(price)},
	}
}

func scenarioPrices() types.Prices {
	def := tier(0, 12)
	return types.Prices{
		Default:         &def,
		GraduatedPrices: []types.PriceTier{tier(1, 10), tier(10, 8)},
	}
}

func TestGraduatedPrice(t *testing.T) {
	prices := scenarioPrices()
	tests := []struct {
		quantity int64
		want     int64
	}{
		{0, 12},
		{1, 10},
		{9, 10},
		{10, 8},
		{15, 8},
	}
	for _, tc := range tests {
		got := GraduatedPrice(prices, decimal.NewFromInt(tc.quantity))
		if got == nil {
			t.Fatalf("quantity %d: expected a price", tc.quantity)
		}
		if !got.UnitPrice.Value.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("quantity %d: expected %d, got %s", tc.quantity, tc.want, got.UnitPrice.Value)
		}
	}
}

func TestGraduatedPriceTierOrderDoesNotMatter(t *testing.T) {
	prices := scenarioPrices()
	prices.GraduatedPrices = []types.PriceTier{tier(10, 8), tier(5, 9), tier(1, 10)}

	got := GraduatedPrice(prices, decimal.NewFromInt(7))
	require.NotNil(t, got)
	assert.True(t, got.UnitPrice.Value.Equal(decimal.NewFromInt(9)))
}

func TestGraduatedPriceThresholdIsMonotonic(t *testing.T) {
	prices := scenarioPrices()
	prices.GraduatedPrices = append(prices.GraduatedPrices, tier(5, 9), tier(25, 7))

	previous := decimal.NewFromInt(-1)
	for q := int64(0); q <= 40; q++ {
		got := GraduatedPrice(prices, decimal.NewFromInt(q))
		require.NotNil(t, got)
		threshold := got.MinimumOrderQuantity
		if threshold.LessThan(previous) {
			t.Fatalf("quantity %d: threshold %s dropped below %s", q, threshold, previous)
		}
		previous = threshold
	}
}

func TestGraduatedPriceWithoutPrices(t *testing.T) {
	assert.Nil(t, GraduatedPrice(types.Prices{}, decimal.NewFromInt(3)))
}

func TestPropertySurcharge(t *testing.T) {
	entries := []types.PropertyEntry{
		{Property: types.OrderProperty{ID: 1, Value: "x", Surcharge: decimal.NewFromInt(3)}, Surcharge: decimal.NewFromFloat(1.5)},
		{Property: types.OrderProperty{ID: 2, Value: "y", Surcharge: decimal.NewFromInt(2)}},
		{Property: types.OrderProperty{ID: 3, Surcharge: decimal.NewFromInt(100)}},
	}

	got := PropertySurcharge(entries)
	assert.True(t, got.Equal(decimal.NewFromFloat(3.5)), "got %s", got)
}

func TestTotalPrice(t *testing.T) {
	entries := []types.PropertyEntry{
		{Property: types.OrderProperty{ID: 1, Value: "engraving", Surcharge: decimal.NewFromInt(2)}},
	}

	t.Run("graduated price plus surcharge", func(t *testing.T) {
		total := TotalPrice(scenarioPrices(), decimal.NewFromInt(15), entries, nil)
		require.True(t, total.Applicable)
		assert.True(t, total.Value.Equal(decimal.NewFromInt(10)))
	})

	t.Run("special offer replaces the unit price", func(t *testing.T) {
		prices := scenarioPrices()
		offer := tier(0, 5)
		prices.SpecialOffer = &offer

		total := TotalPrice(prices, decimal.NewFromInt(1), entries, nil)
		require.True(t, total.Applicable)
		assert.True(t, total.Value.Equal(decimal.NewFromInt(7)))
	})

	t.Run("custom transform", func(t *testing.T) {
		half := SpecialOfferFunc(func(base *types.Price, _ types.Prices) (decimal.Decimal, bool) {
			return base.Value.Div(decimal.NewFromInt(2)), true
		})
		total := TotalPrice(scenarioPrices(), decimal.NewFromInt(10), nil, half)
		assert.Equal(t, "4", total.String())
	})

	t.Run("not applicable", func(t *testing.T) {
		total := TotalPrice(types.Prices{}, decimal.NewFromInt(1), entries, nil)
		assert.False(t, total.Applicable)
		assert.Equal(t, NotApplicable, total.String())

		raw, err := json.Marshal(total)
		require.NoError(t, err)
		assert.JSONEq(t, `"N / A"`, string(raw))
	})
}

func TestOrderQuantity(t *testing.T) {
	assert.True(t, OrderQuantity(types.VariationInfo{}).Equal(decimal.NewFromInt(1)))
	assert.True(t, OrderQuantity(types.VariationInfo{MinimumOrderQuantity: decimal.NewFromInt(6)}).Equal(decimal.NewFromInt(6)))
}

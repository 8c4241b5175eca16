// Package pricing derives unit and total prices for a resolved variation.
package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// NotApplicable is rendered in place of a total that cannot be computed.
const NotApplicable = "N / A"

// SpecialOffer turns the graduated unit price into the price actually charged.
// Returning false marks the total as not applicable.
type SpecialOffer interface {
	Apply(base *types.Price, prices types.Prices) (decimal.Decimal, bool)
}

// SpecialOfferFunc adapts a function to SpecialOffer.
type SpecialOfferFunc func(base *types.Price, prices types.Prices) (decimal.Decimal, bool)

func (f SpecialOfferFunc) Apply(base *types.Price, prices types.Prices) (decimal.Decimal, bool) {
	return f(base, prices)
}

// DefaultSpecialOffer charges the special offer price when the variation has one
// and the base price otherwise. Without either the total is not applicable.
var DefaultSpecialOffer SpecialOffer = SpecialOfferFunc(func(base *types.Price, prices types.Prices) (decimal.Decimal, bool) {
	if prices.SpecialOffer != nil {
		return prices.SpecialOffer.UnitPrice.Value, true
	}
	if base == nil {
		return decimal.Zero, false
	}
	return base.Value, true
})

// Total is a computed price total or the not-applicable marker.
type Total struct {
	Value      decimal.Decimal
	Applicable bool
}

func (t Total) String() string {
	if !t.Applicable {
		return NotApplicable
	}
	return t.Value.String()
}

func (t Total) MarshalJSON() ([]byte, error) {
	if !t.Applicable {
		return json.Marshal(NotApplicable)
	}
	return json.Marshal(t.Value)
}

// OrderQuantity is the quantity a freshly resolved variation starts with.
func OrderQuantity(info types.VariationInfo) decimal.Decimal {
	if info.MinimumOrderQuantity.GreaterThan(decimal.Zero) {
		return info.MinimumOrderQuantity
	}
	return decimal.NewFromInt(1)
}

// GraduatedPrice returns the tier with the largest threshold not above quantity,
// falling back to the default price. The result is nil when neither exists.
func GraduatedPrice(prices types.Prices, quantity decimal.Decimal) *types.PriceTier {
	var selected *types.PriceTier
	for _, tier := range prices.GraduatedPrices {
		if tier.MinimumOrderQuantity.LessThanOrEqual(quantity) {
			if selected == nil || tier.MinimumOrderQuantity.GreaterThan(selected.MinimumOrderQuantity) {
				match := tier
				selected = &match
			}
		}
	}
	if selected != nil {
		return selected
	}
	if prices.Default == nil {
		return nil
	}
	fallback := *prices.Default
	return &fallback
}

// PropertySurcharge sums the surcharge of every property the customer filled in.
func PropertySurcharge(entries []types.PropertyEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, entry := range entries {
		if entry.Property.HasValue() {
			sum = sum.Add(entry.EffectiveSurcharge())
		}
	}
	return sum
}

// TotalPrice is the special-offer adjusted graduated unit price plus the property
// surcharges. A nil offer uses DefaultSpecialOffer.
func TotalPrice(prices types.Prices, quantity decimal.Decimal, entries []types.PropertyEntry, offer SpecialOffer) Total {
	if offer == nil {
		offer = DefaultSpecialOffer
	}
	var base *types.Price
	if tier := GraduatedPrice(prices, quantity); tier != nil {
		base = &tier.UnitPrice
	}
	price, ok := offer.Apply(base, prices)
	if !ok {
		return Total{}
	}
	return Total{Value: PropertySurcharge(entries).Add(price), Applicable: true}
}

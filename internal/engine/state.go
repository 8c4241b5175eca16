package engine

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/pricing"
	"github.com/angelmondragon/packfinderz-variations/internal/properties"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Selection returns a copy of the current attribute selection and unit.
func (e *Engine) Selection() (selection.Attributes, *int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Attributes(), e.state.Unit()
}

// IsVariationSelected reports whether the selection currently resolves.
func (e *Engine) IsVariationSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolved != nil
}

// CurrentVariation returns the resolved variation.
func (e *Engine) CurrentVariation() (catalog.Variation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resolved == nil {
		return catalog.Variation{}, false
	}
	return *e.resolved, true
}

// CurrentDetail returns a copy of the last applied variation detail. It stays
// set while the selection is unresolved or a fetch failed.
func (e *Engine) CurrentDetail() *types.ResolvedVariation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

func (e *Engine) OrderQuantity() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quantity
}

// SetOrderQuantity changes the quantity used for graduated prices.
func (e *Engine) SetOrderQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order quantity must be positive")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quantity = quantity
	return nil
}

// SetOrderPropertyValue stores the customer's value for an order property of
// the current variation. It reports whether the property exists.
func (e *Engine) SetOrderPropertyValue(propertyID int, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.current.Primary()
	if primary == nil {
		return false
	}
	for i := range primary.Properties {
		if primary.Properties[i].Property.ID == propertyID {
			primary.Properties[i].Property.Value = types.PropertyValue(value)
			return true
		}
	}
	return false
}

// MarkInvalidProperties toggles highlighting of missing order properties.
func (e *Engine) MarkInvalidProperties(mark bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markInvalid = mark
}

func (e *Engine) InvalidPropertiesMarked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.markInvalid
}

// GraduatedPrice is the tier price for the current order quantity; nil without detail.
func (e *Engine) GraduatedPrice() *types.PriceTier {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.current.Primary()
	if primary == nil {
		return nil
	}
	return pricing.GraduatedPrice(primary.Prices, e.quantity)
}

// TotalPrice is the unit price after special offers plus property surcharges.
func (e *Engine) TotalPrice() pricing.Total {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.current.Primary()
	if primary == nil {
		return pricing.Total{}
	}
	return pricing.TotalPrice(primary.Prices, e.quantity, primary.Properties, e.offer)
}

func (e *Engine) GroupedProperties() []properties.Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.current.Primary()
	if primary == nil {
		return []properties.Group{}
	}
	return properties.Grouped(primary.Properties)
}

func (e *Engine) MissingProperties() []types.PropertyEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.current.Primary()
	if primary == nil {
		return []types.PropertyEntry{}
	}
	return properties.Missing(primary.Properties, e.requireProperties)
}

// IsAttributeChoiceValid reports whether choosing valueID keeps a variation reachable.
func (e *Engine) IsAttributeChoiceValid(attributeID int, valueID *int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.IsAttributeChoiceValid(e.state, attributeID, valueID)
}

func (e *Engine) IsUnitChoiceValid(unitID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.IsUnitChoiceValid(e.state, unitID)
}

func (e *Engine) AttributeValueLabel(attributeID int, valueID *int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labeler.AttributeValueLabel(e.state, attributeID, valueID)
}

func (e *Engine) UnitLabel(unitID int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labeler.UnitLabel(e.state, unitID)
}

func (e *Engine) SelectedValueName(attributeID int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labeler.SelectedValueName(e.state, attributeID)
}

// HasEmptyOption reports whether the product has a variation without attributes.
func (e *Engine) HasEmptyOption() bool {
	return e.resolver.Index().HasEmptyOption()
}

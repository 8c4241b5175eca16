package corrector

import (
	"strings"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/resolver"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
)

// Labeler renders option labels for attribute values and units without
// mutating the selection.
type Labeler struct {
	resolver   *resolver.Resolver
	translator Translator
}

func NewLabeler(r *resolver.Resolver, translator Translator) *Labeler {
	return &Labeler{resolver: r, translator: translator}
}

// AttributeValueLabel returns the label for valueID of attributeID. A nil
// valueID stands for the "no value" option.
func (l *Labeler) AttributeValueLabel(state *selection.State, attributeID int, valueID *int) string {
	var name string
	var hasName bool
	if valueID != nil {
		name, hasName = l.resolver.Index().AttributeValueName(attributeID, *valueID)
	}
	if catalog.SameID(state.Value(attributeID), valueID) {
		return name
	}
	attrs := state.Attributes().With(attributeID, valueID)
	return l.label(state, attrs, state.Unit(), AttributeChange(attributeID, valueID), attributeID, name, hasName)
}

// UnitLabel returns the label for unitID.
func (l *Labeler) UnitLabel(state *selection.State, unitID int) string {
	name, hasName := l.resolver.Index().UnitName(unitID)
	if catalog.SameID(state.Unit(), &unitID) {
		return name
	}
	return l.label(state, state.Attributes(), &unitID, UnitChange(&unitID), 0, name, hasName)
}

// SelectedValueName returns the selected value's name for attributeID or the
// "please select" prompt.
func (l *Labeler) SelectedValueName(state *selection.State, attributeID int) string {
	if value := state.Value(attributeID); value != nil {
		if name, ok := l.resolver.Index().AttributeValueName(attributeID, *value); ok {
			return name
		}
	}
	return translate(l.translator, KeyPleaseSelect, nil)
}

func (l *Labeler) label(state *selection.State, attrs selection.Attributes, unit *int, change Change, attributeID int, name string, hasName bool) string {
	matches := l.resolver.Filter(attrs, unit, false)
	switch {
	case len(matches) == 0:
		return l.unavailable(state, change, attributeID, name, hasName)
	case len(matches) == 1 && !matches[0].IsSalable:
		return translate(l.translator, KeySoldOut, map[string]string{"name": name})
	}
	return name
}

// unavailable explains which selected fields would have to change to reach the
// closest variation. The attribute being rendered is left out of the list.
func (l *Labeler) unavailable(state *selection.State, change Change, attributeID int, name string, hasName bool) string {
	index := l.resolver.Index()
	closest, ok := Closest(state, Qualified(index, change))
	if !ok {
		return ""
	}
	delta := InvalidSelection(index, state, closest)

	names := make([]string, 0, len(delta.AttributesToReset)+1)
	for _, attr := range delta.AttributesToReset {
		if attr.AttributeID != attributeID {
			names = append(names, attr.Name)
		}
	}
	if delta.UnitChanged {
		names = append(names, translate(l.translator, KeyContent, nil))
	}

	key := KeyNotAvailableInSelection
	if hasName {
		key = KeyNotAvailableInSelectionWithAttr
	}
	return translate(l.translator, key, map[string]string{
		"name":      strings.Join(names, ", "),
		"attribute": name,
	})
}

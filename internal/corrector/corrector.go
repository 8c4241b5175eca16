// Package corrector repairs selections that no longer identify a variation and
// renders the option labels that explain why a choice is unavailable.
package corrector

import (
	"sort"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/resolver"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
)

// Message keys looked up through the Translator.
const (
	KeyNotAvailable                    = "singleItemNotAvailable"
	KeyContent                         = "singleItemContent"
	KeySoldOut                         = "singleItemSoldOut"
	KeyNotAvailableInSelection         = "singleItemNotAvailableInSelection"
	KeyNotAvailableInSelectionWithAttr = "singleItemNotAvailableInSelectionWithAttributeName"
	KeyPleaseSelect                    = "singleItemPleaseSelect"
)

// Translator renders a localized message for key.
type Translator interface {
	Translate(key string, params map[string]string) string
}

// Change describes the single selection edit that triggered a correction.
// AttributeID/ValueID are set for an attribute edit, UnitID for a unit edit.
type Change struct {
	AttributeID int
	ValueID     *int
	UnitID      *int
}

// AttributeChange builds the change for selecting valueID on attributeID.
func AttributeChange(attributeID int, valueID *int) Change {
	return Change{AttributeID: attributeID, ValueID: valueID}
}

// UnitChange builds the change for selecting unitID.
func UnitChange(unitID *int) Change {
	return Change{UnitID: unitID}
}

// Delta is the part of a selection that disagrees with a target variation.
type Delta struct {
	AttributesToReset []catalog.Attribute
	Unit              *int
	UnitChanged       bool
}

// Empty reports whether applying the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.AttributesToReset) == 0 && !d.UnitChanged
}

// Qualified returns the variations compatible with the change alone: those
// carrying the new attribute value, else those with the new unit, else the
// variations without attributes.
func Qualified(index *catalog.Index, change Change) []catalog.Variation {
	switch {
	case change.ValueID != nil:
		attributeID, valueID := change.AttributeID, *change.ValueID
		return index.Qualify(func(v catalog.Variation) bool {
			value, ok := v.ValueOf(attributeID)
			return ok && value == valueID
		})
	case change.UnitID != nil:
		return index.Qualify(func(v catalog.Variation) bool {
			return v.HasUnit(change.UnitID)
		})
	default:
		return index.Qualify(func(v catalog.Variation) bool {
			return len(v.Attributes) == 0
		})
	}
}

// Closest returns the candidate reachable with the fewest selection changes.
// The unit counts only while a unit is selected. Ties keep catalog order.
func Closest(state *selection.State, candidates []catalog.Variation) (catalog.Variation, bool) {
	best := -1
	bestChanges := 0
	unit := state.Unit()
	for i, candidate := range candidates {
		changes := 0
		if unit != nil && !candidate.HasUnit(unit) {
			changes++
		}
		for _, attr := range candidate.Attributes {
			selected := state.Value(attr.AttributeID)
			if selected == nil || *selected != attr.AttributeValueID {
				changes++
			}
		}
		if best < 0 || changes < bestChanges {
			best, bestChanges = i, changes
		}
	}
	if best < 0 {
		return catalog.Variation{}, false
	}
	return candidates[best], true
}

// InvalidSelection lists every selected attribute the target lacks or disagrees
// with, in attribute id order, and the unit replacement if the units differ.
func InvalidSelection(index *catalog.Index, state *selection.State, target catalog.Variation) Delta {
	attrs := state.Attributes()
	ids := make([]int, 0, len(attrs))
	for id, value := range attrs {
		if value != nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	var delta Delta
	for _, id := range ids {
		value, ok := target.ValueOf(id)
		if ok && value == *attrs[id] {
			continue
		}
		attr, known := index.Attribute(id)
		if !known {
			attr = catalog.Attribute{AttributeID: id}
		}
		delta.AttributesToReset = append(delta.AttributesToReset, attr)
	}
	if !target.HasUnit(state.Unit()) {
		delta.Unit = target.UnitCombinationID
		delta.UnitChanged = true
	}
	return delta
}

// Result is the outcome of one correction run.
type Result struct {
	Variation catalog.Variation
	Resolved  bool
	Applied   bool
	Delta     Delta
	Messages  []string
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithMetrics counts applied and skipped corrections.
func WithMetrics(m *metrics.VariationMetrics) Option {
	return func(c *Corrector) {
		c.metrics = m
	}
}

// Corrector moves an unresolvable selection to the closest valid one.
type Corrector struct {
	resolver   *resolver.Resolver
	translator Translator
	metrics    *metrics.VariationMetrics
}

func New(r *resolver.Resolver, translator Translator, opts ...Option) *Corrector {
	c := &Corrector{resolver: r, translator: translator}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Correct mutates state towards the variation closest to change and re-resolves.
// Messages are collected after every mutation is applied. When no variation
// qualifies the state is left untouched.
func (c *Corrector) Correct(state *selection.State, change Change) Result {
	index := c.resolver.Index()
	closest, ok := Closest(state, Qualified(index, change))
	if !ok {
		c.metrics.IncCorrection(metrics.CorrectionSkipped)
		return Result{}
	}

	delta := InvalidSelection(index, state, closest)
	hadUnit := state.Unit() != nil

	for _, attr := range delta.AttributesToReset {
		state.SetAttribute(attr.AttributeID, nil)
	}
	if delta.UnitChanged {
		state.SetUnit(delta.Unit)
	}

	messages := make([]string, 0, len(delta.AttributesToReset)+1)
	for _, attr := range delta.AttributesToReset {
		messages = append(messages, translate(c.translator, KeyNotAvailable, map[string]string{"name": attr.Name}))
	}
	if delta.UnitChanged && hadUnit {
		content := translate(c.translator, KeyContent, nil)
		messages = append(messages, translate(c.translator, KeyNotAvailable, map[string]string{"name": content}))
	}

	c.metrics.IncCorrection(metrics.CorrectionApplied)
	variation, resolved := c.resolver.ResolveCurrent(state)
	return Result{
		Variation: variation,
		Resolved:  resolved,
		Applied:   true,
		Delta:     delta,
		Messages:  messages,
	}
}

func translate(t Translator, key string, params map[string]string) string {
	if t == nil {
		return key
	}
	return t.Translate(key, params)
}

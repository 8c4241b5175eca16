// Package properties groups the order properties of a variation and reports
// which of them still need a customer value.
package properties

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Property is an order property annotated with its item level surcharge.
type Property struct {
	Property      types.OrderProperty `json:"property"`
	ItemSurcharge decimal.Decimal     `json:"itemSurcharge"`
}

// Group collects the properties sharing one group id. Group is nil for
// ungrouped properties.
type Group struct {
	Group      *types.PropertyGroup `json:"group"`
	Properties []Property           `json:"properties"`
}

type groupKey struct {
	id      int
	grouped bool
}

func keyOf(group *types.PropertyGroup) groupKey {
	if group == nil {
		return groupKey{}
	}
	return groupKey{id: group.ID, grouped: true}
}

// Grouped returns the shown order properties bucketed by group, in order of first appearance.
func Grouped(entries []types.PropertyEntry) []Group {
	groups := make([]Group, 0)
	positions := make(map[groupKey]int)
	for _, entry := range entries {
		if !entry.Property.IsShownOnItemPage || !entry.Property.IsOrderProperty {
			continue
		}
		key := keyOf(entry.Group)
		pos, ok := positions[key]
		if !ok {
			pos = len(groups)
			positions[key] = pos
			groups = append(groups, Group{Group: entry.Group})
		}
		groups[pos].Properties = append(groups[pos].Properties, Property{
			Property:      entry.Property,
			ItemSurcharge: entry.Surcharge,
		})
	}
	return groups
}

// Missing returns the shown order properties without a value. Unchosen members
// of a single-choice group are skipped once a sibling has a value. With
// require unset nothing is ever missing.
func Missing(entries []types.PropertyEntry, require bool) []types.PropertyEntry {
	if !require {
		return []types.PropertyEntry{}
	}

	// a group is single-choice when any of its members says so
	radio := make(map[int]bool)
	for _, entry := range entries {
		if entry.Group.IsRadio() {
			radio[entry.Group.ID] = true
		}
	}
	chosen := make(map[int]bool)
	for _, entry := range entries {
		if entry.Group != nil && radio[entry.Group.ID] && entry.Property.HasValue() {
			chosen[entry.Group.ID] = true
		}
	}

	missing := make([]types.PropertyEntry, 0)
	for _, entry := range entries {
		p := entry.Property
		if !p.IsShownOnItemPage || !p.IsOrderProperty || p.HasValue() {
			continue
		}
		if entry.Group != nil && chosen[entry.Group.ID] {
			continue
		}
		missing = append(missing, entry)
	}
	return missing
}

package selection

import (
	"sort"
	"strconv"
	"strings"
)

// Attributes maps every known attribute id to the selected value id; nil means unset.
type Attributes map[int]*int

// Clone returns a deep copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for id, value := range a {
		if value == nil {
			out[id] = nil
			continue
		}
		v := *value
		out[id] = &v
	}
	return out
}

// With returns a copy with attributeID set to valueID.
func (a Attributes) With(attributeID int, valueID *int) Attributes {
	out := a.Clone()
	if valueID == nil {
		out[attributeID] = nil
		return out
	}
	v := *valueID
	out[attributeID] = &v
	return out
}

// AllUnset reports whether no attribute carries a value.
func (a Attributes) AllUnset() bool {
	for _, value := range a {
		if value != nil {
			return false
		}
	}
	return true
}

// Key renders a canonical representation ordered by attribute id.
func (a Attributes) Key() string {
	ids := make([]int, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
		b.WriteByte('=')
		if value := a[id]; value != nil {
			b.WriteString(strconv.Itoa(*value))
		} else {
			b.WriteString("null")
		}
	}
	return b.String()
}

// State is the user's current attribute and unit selection for one product view.
type State struct {
	attributes Attributes
	unit       *int
}

// New creates a state with every known attribute unset.
func New(attributeIDs []int, unit *int) *State {
	attrs := make(Attributes, len(attributeIDs))
	for _, id := range attributeIDs {
		attrs[id] = nil
	}
	return &State{attributes: attrs, unit: copyInt(unit)}
}

// Attributes returns a copy of the attribute selection.
func (s *State) Attributes() Attributes {
	return s.attributes.Clone()
}

// Value returns the selected value for attributeID; nil when unset or unknown.
func (s *State) Value(attributeID int) *int {
	return copyInt(s.attributes[attributeID])
}

// Known reports whether attributeID belongs to the selection's key set.
func (s *State) Known(attributeID int) bool {
	_, ok := s.attributes[attributeID]
	return ok
}

// Unit returns the selected unit; nil when unset.
func (s *State) Unit() *int {
	return copyInt(s.unit)
}

// SetAttribute sets or clears one attribute and reports whether the value changed.
func (s *State) SetAttribute(attributeID int, valueID *int) bool {
	current, known := s.attributes[attributeID]
	if known && sameInt(current, valueID) {
		return false
	}
	s.attributes[attributeID] = copyInt(valueID)
	return true
}

// ReplaceAttributes overwrites the whole attribute selection.
func (s *State) ReplaceAttributes(attrs Attributes) {
	s.attributes = attrs.Clone()
}

// SetUnit replaces the selected unit and reports whether it changed.
func (s *State) SetUnit(unitID *int) bool {
	if sameInt(s.unit, unitID) {
		return false
	}
	s.unit = copyInt(unitID)
	return true
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{attributes: s.attributes.Clone(), unit: copyInt(s.unit)}
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

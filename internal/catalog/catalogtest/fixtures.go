// Package catalogtest builds small variation catalogs for tests.
package catalogtest

import (
	"testing"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Attribute ids and value ids shared by the fixtures.
const (
	Color = 1
	Size  = 2

	Red   = 10
	Blue  = 11
	Green = 12

	Small  = 20
	Medium = 21
	Large  = 22

	Box = 100
	Bag = 101
	Can = 102
)

// Attributes returns the color/size catalog.
func Attributes() []catalog.Attribute {
	return []catalog.Attribute{
		{AttributeID: Color, Name: "Color", Values: []catalog.AttributeValue{
			{AttributeValueID: Red, Name: "Red"},
			{AttributeValueID: Blue, Name: "Blue"},
			{AttributeValueID: Green, Name: "Green"},
		}},
		{AttributeID: Size, Name: "Size", Values: []catalog.AttributeValue{
			{AttributeValueID: Small, Name: "S"},
			{AttributeValueID: Medium, Name: "M"},
			{AttributeValueID: Large, Name: "L"},
		}},
	}
}

// Units returns the unit catalog.
func Units() map[int]string {
	return map[int]string{Box: "Box", Bag: "Bag", Can: "Can"}
}

// V builds a salable variation from attribute/value pairs.
func V(id int, unit *int, pairs ...int) catalog.Variation {
	attrs := make([]types.VariationAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, types.VariationAttribute{AttributeID: pairs[i], AttributeValueID: pairs[i+1]})
	}
	return catalog.Variation{VariationID: id, Attributes: attrs, UnitCombinationID: unit, IsSalable: true}
}

// SoldOut marks a variation as not salable.
func SoldOut(v catalog.Variation) catalog.Variation {
	v.IsSalable = false
	return v
}

// Unit returns a pointer to a unit id.
func Unit(id int) *int {
	return catalog.IntPtr(id)
}

// Index builds an index over the color/size catalog or fails the test.
func Index(t testing.TB, variations ...catalog.Variation) *catalog.Index {
	t.Helper()
	idx, err := catalog.NewIndex(1, Attributes(), Units(), variations)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx
}

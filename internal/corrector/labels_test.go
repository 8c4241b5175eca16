package corrector

import (
	"testing"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	ct "github.com/angelmondragon/packfinderz-variations/internal/catalog/catalogtest"
)

func TestAttributeValueLabel(t *testing.T) {
	r, idx := setup(t,
		ct.V(1, nil, ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(2, nil, ct.Color, ct.Red, ct.Size, ct.Medium),
		ct.SoldOut(ct.V(3, nil, ct.Color, ct.Blue, ct.Size, ct.Small)),
		ct.V(4, nil, ct.Color, ct.Green, ct.Size, ct.Medium),
	)
	labeler := NewLabeler(r, keyTranslator{})
	state := stateFor(idx, nil, ct.Color, ct.Red, ct.Size, ct.Small)

	tests := []struct {
		name      string
		attribute int
		value     int
		want      string
	}{
		{"selected value", ct.Size, ct.Small, "S"},
		{"reachable value", ct.Size, ct.Medium, "M"},
		{"sold out", ct.Color, ct.Blue, "singleItemSoldOut(name=Blue)"},
		{"unavailable lists other attributes", ct.Color, ct.Green, "singleItemNotAvailableInSelectionWithAttributeName(attribute=Green;name=Size)"},
		{"no variation at all", ct.Size, ct.Large, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := labeler.AttributeValueLabel(state, tc.attribute, catalog.IntPtr(tc.value))
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	if state.Value(ct.Color) == nil || *state.Value(ct.Color) != ct.Red {
		t.Fatalf("labels must not mutate the selection")
	}
}

func TestUnitLabel(t *testing.T) {
	r, idx := setup(t,
		ct.V(1, ct.Unit(ct.Box), ct.Size, ct.Small),
		ct.V(2, ct.Unit(ct.Bag), ct.Size, ct.Medium),
	)
	labeler := NewLabeler(r, keyTranslator{})
	state := stateFor(idx, ct.Unit(ct.Box), ct.Size, ct.Small)

	if got := labeler.UnitLabel(state, ct.Box); got != "Box" {
		t.Fatalf("expected selected unit name, got %q", got)
	}
	want := "singleItemNotAvailableInSelectionWithAttributeName(attribute=Bag;name=Size, singleItemContent)"
	if got := labeler.UnitLabel(state, ct.Bag); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := labeler.UnitLabel(state, 999); got != "" {
		t.Fatalf("expected empty label for unknown unit, got %q", got)
	}
}

func TestSelectedValueName(t *testing.T) {
	r, idx := setup(t, ct.V(1, nil, ct.Color, ct.Red, ct.Size, ct.Small))
	labeler := NewLabeler(r, keyTranslator{})
	state := stateFor(idx, nil, ct.Color, ct.Red)

	if got := labeler.SelectedValueName(state, ct.Color); got != "Red" {
		t.Fatalf("expected Red, got %q", got)
	}
	if got := labeler.SelectedValueName(state, ct.Size); got != KeyPleaseSelect {
		t.Fatalf("expected please-select prompt, got %q", got)
	}
}

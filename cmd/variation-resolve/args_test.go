package main

import "testing"

func TestStepsSet(t *testing.T) {
	var s steps
	if err := s.Set("1=10, unit=100"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("2="); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(s) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(s))
	}
	if s[0].unit || s[0].attributeID != 1 || *s[0].valueID != 10 {
		t.Fatalf("unexpected attribute step %+v", s[0])
	}
	if !s[1].unit || *s[1].valueID != 100 {
		t.Fatalf("unexpected unit step %+v", s[1])
	}
	if s[2].valueID != nil {
		t.Fatalf("expected clearing step, got %+v", s[2])
	}
	if got := s.String(); got != "1=10,unit=100,2=" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestStepsSetRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"color", "x=1", "1=x", "unit=box"} {
		var s steps
		if err := s.Set(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestPropertyValuesSet(t *testing.T) {
	var p propertyValues
	if err := p.Set("3=gift wrap"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(p) != 1 || p[0].id != 3 || p[0].value != "gift wrap" {
		t.Fatalf("unexpected values %+v", p)
	}
	if err := p.Set("novalue"); err == nil {
		t.Fatalf("expected error without '='")
	}
}

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// step is one selection change requested on the command line.
type step struct {
	unit        bool
	attributeID int
	valueID     *int
}

// steps collects repeated -select flags: "unit=<id>", "<attributeId>=<valueId>"
// or "<attributeId>=" to clear an attribute.
type steps []step

func (s *steps) String() string {
	parts := make([]string, 0, len(*s))
	for _, st := range *s {
		switch {
		case st.unit:
			parts = append(parts, fmt.Sprintf("unit=%d", *st.valueID))
		case st.valueID == nil:
			parts = append(parts, fmt.Sprintf("%d=", st.attributeID))
		default:
			parts = append(parts, fmt.Sprintf("%d=%d", st.attributeID, *st.valueID))
		}
	}
	return strings.Join(parts, ",")
}

func (s *steps) Set(raw string) error {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		st, err := parseStep(part)
		if err != nil {
			return err
		}
		*s = append(*s, st)
	}
	return nil
}

func parseStep(raw string) (step, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return step{}, fmt.Errorf("selection %q must look like key=value", raw)
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	if strings.EqualFold(key, "unit") {
		id, err := strconv.Atoi(value)
		if err != nil {
			return step{}, fmt.Errorf("unit id %q: %w", value, err)
		}
		return step{unit: true, valueID: &id}, nil
	}

	attributeID, err := strconv.Atoi(key)
	if err != nil {
		return step{}, fmt.Errorf("attribute id %q: %w", key, err)
	}
	if value == "" || value == "null" {
		return step{attributeID: attributeID}, nil
	}
	valueID, err := strconv.Atoi(value)
	if err != nil {
		return step{}, fmt.Errorf("attribute value id %q: %w", value, err)
	}
	return step{attributeID: attributeID, valueID: &valueID}, nil
}

// propertyValue is one "-property <id>=<value>" flag.
type propertyValue struct {
	id    int
	value string
}

type propertyValues []propertyValue

func (p *propertyValues) String() string {
	parts := make([]string, 0, len(*p))
	for _, pv := range *p {
		parts = append(parts, fmt.Sprintf("%d=%s", pv.id, pv.value))
	}
	return strings.Join(parts, ",")
}

func (p *propertyValues) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("property %q must look like id=value", raw)
	}
	id, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return fmt.Errorf("property id %q: %w", key, err)
	}
	*p = append(*p, propertyValue{id: id, value: value})
	return nil
}

package enums

import "fmt"

// OrderPropertyGroupingType controls whether a property group behaves like checkboxes or radios.
type OrderPropertyGroupingType string

const (
	OrderPropertyGroupingSingle   OrderPropertyGroupingType = "single"
	OrderPropertyGroupingMultiple OrderPropertyGroupingType = "multiple"
)

var validOrderPropertyGroupingTypes = []OrderPropertyGroupingType{
	OrderPropertyGroupingSingle,
	OrderPropertyGroupingMultiple,
}

// String implements fmt.Stringer.
func (g OrderPropertyGroupingType) String() string {
	return string(g)
}

// IsValid reports whether the value is a known OrderPropertyGroupingType.
func (g OrderPropertyGroupingType) IsValid() bool {
	for _, candidate := range validOrderPropertyGroupingTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseOrderPropertyGroupingType converts raw input into an OrderPropertyGroupingType.
func ParseOrderPropertyGroupingType(value string) (OrderPropertyGroupingType, error) {
	for _, candidate := range validOrderPropertyGroupingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order property grouping type %q", value)
}

// OrderPropertyValueType describes the input rendered for an order property.
type OrderPropertyValueType string

const (
	OrderPropertyValueEmpty     OrderPropertyValueType = "empty"
	OrderPropertyValueText      OrderPropertyValueType = "text"
	OrderPropertyValueInt       OrderPropertyValueType = "int"
	OrderPropertyValueFloat     OrderPropertyValueType = "float"
	OrderPropertyValueSelection OrderPropertyValueType = "selection"
	OrderPropertyValueFile      OrderPropertyValueType = "file"
)

var validOrderPropertyValueTypes = []OrderPropertyValueType{
	OrderPropertyValueEmpty,
	OrderPropertyValueText,
	OrderPropertyValueInt,
	OrderPropertyValueFloat,
	OrderPropertyValueSelection,
	OrderPropertyValueFile,
}

// String implements fmt.Stringer.
func (v OrderPropertyValueType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OrderPropertyValueType.
func (v OrderPropertyValueType) IsValid() bool {
	for _, candidate := range validOrderPropertyValueTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseOrderPropertyValueType converts raw input into an OrderPropertyValueType.
func ParseOrderPropertyValueType(value string) (OrderPropertyValueType, error) {
	for _, candidate := range validOrderPropertyValueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order property value type %q", value)
}

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/pkg/enums"
)

// ResolvedVariation is the detail payload returned by the item API for one variation.
type ResolvedVariation struct {
	VariationID int                  `json:"variationId"`
	Attributes  []VariationAttribute `json:"attributes"`
	Documents   []Document           `json:"documents"`
}

// VariationAttribute is one attribute/value pair of a variation.
type VariationAttribute struct {
	AttributeID      int `json:"attributeId" validate:"required,gt=0"`
	AttributeValueID int `json:"attributeValueId" validate:"required,gt=0"`
}

// Document wraps the search document of a variation.
type Document struct {
	ID   int          `json:"id"`
	Data DocumentData `json:"data"`
}

type DocumentData struct {
	Variation  VariationInfo   `json:"variation"`
	Prices     Prices          `json:"prices"`
	Properties []PropertyEntry `json:"properties"`
}

// UnmarshalJSON resolves the grouping type of groups given as a bare id.
func (d *DocumentData) UnmarshalJSON(data []byte) error {
	type alias DocumentData
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = DocumentData(raw)
	NormalizeGroups(d.Properties)
	return nil
}

// NormalizeGroups copies the grouping type of each group onto the entries that
// only referenced the group by id.
func NormalizeGroups(entries []PropertyEntry) {
	kinds := make(map[int]enums.OrderPropertyGroupingType)
	for _, entry := range entries {
		if entry.Group != nil && entry.Group.GroupingType != "" {
			if _, ok := kinds[entry.Group.ID]; !ok {
				kinds[entry.Group.ID] = entry.Group.GroupingType
			}
		}
	}
	for i := range entries {
		group := entries[i].Group
		if group == nil || group.GroupingType != "" {
			continue
		}
		if kind, ok := kinds[group.ID]; ok {
			entries[i].Group = &PropertyGroup{ID: group.ID, GroupingType: kind}
		}
	}
}

type VariationInfo struct {
	ID                   int             `json:"id"`
	Name                 string          `json:"name,omitempty"`
	MinimumOrderQuantity decimal.Decimal `json:"minimumOrderQuantity"`
}

// Prices holds the default price, graduated tiers and an optional special offer.
type Prices struct {
	Default         *PriceTier  `json:"default"`
	GraduatedPrices []PriceTier `json:"graduatedPrices"`
	SpecialOffer    *PriceTier  `json:"specialOffer,omitempty"`
}

// PriceTier is a unit price valid from MinimumOrderQuantity upwards.
type PriceTier struct {
	MinimumOrderQuantity decimal.Decimal `json:"minimumOrderQuantity"`
	UnitPrice            Price           `json:"unitPrice"`
}

type Price struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
}

// PropertyEntry pairs an order property with its group and item level surcharge.
type PropertyEntry struct {
	Property  OrderProperty   `json:"property"`
	Group     *PropertyGroup  `json:"group"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// EffectiveSurcharge prefers the item level surcharge and falls back to the property's own.
func (p PropertyEntry) EffectiveSurcharge() decimal.Decimal {
	if !p.Surcharge.IsZero() {
		return p.Surcharge
	}
	return p.Property.Surcharge
}

type OrderProperty struct {
	ID                int                          `json:"id"`
	Name              string                       `json:"name,omitempty"`
	Value             PropertyValue                `json:"value"`
	IsShownOnItemPage bool                         `json:"isShownOnItemPage"`
	IsOrderProperty   bool                         `json:"isOrderProperty"`
	ValueType         enums.OrderPropertyValueType `json:"valueType"`
	Surcharge         decimal.Decimal              `json:"surcharge"`
}

// UnmarshalJSON also accepts the legacy "isOderProperty" key emitted by older item APIs.
func (p *OrderProperty) UnmarshalJSON(data []byte) error {
	type alias OrderProperty
	var raw struct {
		alias
		LegacyIsOrderProperty bool `json:"isOderProperty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = OrderProperty(raw.alias)
	p.IsOrderProperty = p.IsOrderProperty || raw.LegacyIsOrderProperty
	return nil
}

// HasValue reports whether the customer entered a value for the property.
func (p OrderProperty) HasValue() bool {
	return p.Value != ""
}

// PropertyValue normalizes string, number and boolean inputs into a string.
// Falsy inputs (null, false, 0, "") become the empty value.
type PropertyValue string

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")), bytes.Equal(trimmed, []byte("false")):
		*v = ""
	case bytes.Equal(trimmed, []byte("true")):
		*v = "true"
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = PropertyValue(s)
	default:
		num, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("property value: unsupported json %s", trimmed)
		}
		if num == 0 {
			*v = ""
			return nil
		}
		*v = PropertyValue(trimmed)
	}
	return nil
}

// PropertyGroup is the normalized group reference of an order property.
type PropertyGroup struct {
	ID           int                             `json:"id"`
	GroupingType enums.OrderPropertyGroupingType `json:"orderPropertyGroupingType"`
}

// UnmarshalJSON accepts either a bare group id or a group object.
func (g *PropertyGroup) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		id, err := strconv.Atoi(string(trimmed))
		if err != nil {
			return fmt.Errorf("property group: parse id %w", err)
		}
		*g = PropertyGroup{ID: id}
		return nil
	}
	type alias PropertyGroup
	var raw alias
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*g = PropertyGroup(raw)
	return nil
}

// IsRadio reports whether the group only allows one chosen property.
func (g *PropertyGroup) IsRadio() bool {
	return g != nil && g.GroupingType == enums.OrderPropertyGroupingSingle
}

// VariationChanged is emitted after a selection resolves to a concrete variation.
type VariationChanged struct {
	VariationID int                  `json:"variationId"`
	Attributes  []VariationAttribute `json:"attributes"`
	Documents   []Document           `json:"documents"`
}

// Primary returns the first document's data, or nil when the payload has no documents.
func (r *ResolvedVariation) Primary() *DocumentData {
	if r == nil || len(r.Documents) == 0 {
		return nil
	}
	return &r.Documents[0].Data
}

// Clone returns a copy whose attribute, document and property slices can be
// modified without touching r.
func (r *ResolvedVariation) Clone() *ResolvedVariation {
	if r == nil {
		return nil
	}
	out := *r
	out.Attributes = append([]VariationAttribute(nil), r.Attributes...)
	out.Documents = make([]Document, len(r.Documents))
	for i, doc := range r.Documents {
		doc.Data.Properties = append([]PropertyEntry(nil), doc.Data.Properties...)
		doc.Data.Prices.GraduatedPrices = append([]PriceTier(nil), doc.Data.Prices.GraduatedPrices...)
		out.Documents[i] = doc
	}
	return &out
}

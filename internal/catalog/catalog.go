package catalog

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Attribute is a selectable product attribute and its possible values.
type Attribute struct {
	AttributeID int              `json:"attributeId" validate:"required,gt=0"`
	Name        string           `json:"name" validate:"required"`
	Values      []AttributeValue `json:"values" validate:"dive"`
}

type AttributeValue struct {
	AttributeValueID int    `json:"attributeValueId" validate:"required,gt=0"`
	Name             string `json:"name" validate:"required"`
}

// Variation is one orderable combination of attribute values and unit.
type Variation struct {
	VariationID       int                        `json:"variationId" validate:"required,gt=0"`
	Attributes        []types.VariationAttribute `json:"attributes" validate:"dive"`
	UnitCombinationID *int                       `json:"unitCombinationId"`
	IsSalable         bool                       `json:"isSalable"`
}

// ValueOf returns the variation's value for attributeID.
func (v Variation) ValueOf(attributeID int) (int, bool) {
	for _, attr := range v.Attributes {
		if attr.AttributeID == attributeID {
			return attr.AttributeValueID, true
		}
	}
	return 0, false
}

// HasUnit reports whether the variation's unit equals unitID; nil only matches nil.
func (v Variation) HasUnit(unitID *int) bool {
	return SameID(v.UnitCombinationID, unitID)
}

// Signature is the canonical (attribute-set, unit) identity of a variation.
func (v Variation) Signature() string {
	pairs := make([]string, 0, len(v.Attributes))
	for _, attr := range v.Attributes {
		pairs = append(pairs, fmt.Sprintf("%d=%d", attr.AttributeID, attr.AttributeValueID))
	}
	sort.Strings(pairs)
	unit := "null"
	if v.UnitCombinationID != nil {
		unit = fmt.Sprintf("%d", *v.UnitCombinationID)
	}
	return strings.Join(pairs, ",") + "|" + unit
}

// Predicate decides whether a variation qualifies.
type Predicate func(Variation) bool

// Index is the read-only view of all variations of one product.
type Index struct {
	productID  int
	variations []Variation
	attributes []Attribute
	byID       map[int]Attribute
	units      map[int]string
}

// NewIndex builds an index and rejects catalogs that break the variation invariants.
func NewIndex(productID int, attributes []Attribute, units map[int]string, variations []Variation) (*Index, error) {
	idx := &Index{
		productID:  productID,
		variations: append([]Variation(nil), variations...),
		attributes: append([]Attribute(nil), attributes...),
		byID:       make(map[int]Attribute, len(attributes)),
		units:      make(map[int]string, len(units)),
	}
	for id, name := range units {
		idx.units[id] = name
	}

	var errs error
	for _, attr := range attributes {
		if _, ok := idx.byID[attr.AttributeID]; ok {
			errs = multierr.Append(errs, fmt.Errorf("attribute %d declared twice", attr.AttributeID))
			continue
		}
		idx.byID[attr.AttributeID] = attr
	}

	signatures := make(map[string]int, len(variations))
	seenIDs := make(map[int]struct{}, len(variations))
	for _, variation := range variations {
		if _, ok := seenIDs[variation.VariationID]; ok {
			errs = multierr.Append(errs, fmt.Errorf("variation %d declared twice", variation.VariationID))
		}
		seenIDs[variation.VariationID] = struct{}{}

		attrSeen := make(map[int]struct{}, len(variation.Attributes))
		for _, attr := range variation.Attributes {
			if _, ok := attrSeen[attr.AttributeID]; ok {
				errs = multierr.Append(errs, fmt.Errorf("variation %d repeats attribute %d", variation.VariationID, attr.AttributeID))
			}
			attrSeen[attr.AttributeID] = struct{}{}
		}

		sig := variation.Signature()
		if other, ok := signatures[sig]; ok {
			errs = multierr.Append(errs, fmt.Errorf("variations %d and %d share signature %s", other, variation.VariationID, sig))
			continue
		}
		signatures[sig] = variation.VariationID
	}

	if errs != nil {
		details := make([]string, 0)
		for _, err := range multierr.Errors(errs) {
			details = append(details, err.Error())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid variation catalog").WithDetails(details)
	}
	return idx, nil
}

func (i *Index) ProductID() int {
	return i.productID
}

// Variations returns all variations in catalog order. Callers must not modify the slice.
func (i *Index) Variations() []Variation {
	return i.variations
}

// Attributes returns the attribute catalog in declaration order.
func (i *Index) Attributes() []Attribute {
	return i.attributes
}

// AttributeIDs returns every known attribute id, sorted ascending.
func (i *Index) AttributeIDs() []int {
	ids := make([]int, 0, len(i.attributes))
	for id := range i.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (i *Index) HasAttribute(attributeID int) bool {
	_, ok := i.byID[attributeID]
	return ok
}

func (i *Index) Attribute(attributeID int) (Attribute, bool) {
	attr, ok := i.byID[attributeID]
	return attr, ok
}

// AttributeValueName returns the display name of a value; empty when unknown.
func (i *Index) AttributeValueName(attributeID, valueID int) (string, bool) {
	attr, ok := i.byID[attributeID]
	if !ok {
		return "", false
	}
	for _, value := range attr.Values {
		if value.AttributeValueID == valueID {
			return value.Name, true
		}
	}
	return "", false
}

func (i *Index) UnitName(unitID int) (string, bool) {
	name, ok := i.units[unitID]
	return name, ok
}

// UnitIDs returns the unit catalog ids, sorted ascending.
func (i *Index) UnitIDs() []int {
	ids := make([]int, 0, len(i.units))
	for id := range i.units {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// HasEmptyOption reports whether any variation has no attributes.
func (i *Index) HasEmptyOption() bool {
	for _, variation := range i.variations {
		if len(variation.Attributes) == 0 {
			return true
		}
	}
	return false
}

// Qualify returns the variations accepted by pred, in catalog order.
func (i *Index) Qualify(pred Predicate) []Variation {
	out := make([]Variation, 0)
	for _, variation := range i.variations {
		if pred(variation) {
			out = append(out, variation)
		}
	}
	return out
}

// Variation looks a variation up by id.
func (i *Index) Variation(variationID int) (Variation, bool) {
	for _, variation := range i.variations {
		if variation.VariationID == variationID {
			return variation, true
		}
	}
	return Variation{}, false
}

// SameID compares two nullable ids.
func SameID(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// IntPtr returns a pointer to a copy of value.
func IntPtr(value int) *int {
	return &value
}

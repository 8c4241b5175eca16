package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Product is the ingestion payload for a product's variation catalog.
type Product struct {
	ProductID  int            `json:"productId" validate:"required,gt=0"`
	Attributes []Attribute    `json:"attributes" validate:"dive"`
	Units      map[int]string `json:"units"`
	Variations []Variation    `json:"variations" validate:"required,min=1,dive"`
	// Details optionally embeds variation detail payloads keyed by variation id.
	Details map[int]types.ResolvedVariation `json:"details,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Decode reads and validates a product payload.
func Decode(r io.Reader) (*Product, error) {
	var product Product
	if err := json.NewDecoder(r).Decode(&product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product payload")
	}
	if err := validate.Struct(&product); err != nil {
		return nil, formatValidationErrors(err)
	}
	return &product, nil
}

// Load decodes a product payload and builds its index.
func Load(r io.Reader) (*Product, *Index, error) {
	product, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	idx, err := NewIndex(product.ProductID, product.Attributes, product.Units, product.Variations)
	if err != nil {
		return nil, nil, err
	}
	return product, idx, nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Namespace()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	}
	return "is invalid"
}

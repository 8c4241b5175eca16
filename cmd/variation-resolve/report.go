package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/internal/engine"
	"github.com/angelmondragon/packfinderz-variations/internal/notify"
	"github.com/angelmondragon/packfinderz-variations/internal/pricing"
	"github.com/angelmondragon/packfinderz-variations/internal/properties"
	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// plan is the sequence of changes applied to a fresh engine.
type plan struct {
	preselect  int
	steps      steps
	properties propertyValues
	quantity   *decimal.Decimal
}

// apply runs p against e and returns the last outcome. Details superseded by a
// later step are not an error.
func apply(ctx context.Context, e *engine.Engine, p plan) (engine.Outcome, error) {
	var last engine.Outcome
	settle := func(out engine.Outcome) error {
		last = out
		if err := out.Wait(ctx); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			return err
		}
		return nil
	}

	if p.preselect > 0 {
		out, err := e.Preselect(ctx, p.preselect)
		if err != nil {
			return last, err
		}
		if err := settle(out); err != nil {
			return last, err
		}
	}

	for _, st := range p.steps {
		var out engine.Outcome
		if st.unit {
			out = e.SelectUnit(ctx, *st.valueID)
		} else {
			out = e.SelectAttribute(ctx, st.attributeID, st.valueID)
		}
		if err := settle(out); err != nil {
			return last, err
		}
	}

	if p.quantity != nil {
		if err := e.SetOrderQuantity(*p.quantity); err != nil {
			return last, err
		}
	}
	for _, pv := range p.properties {
		if !e.SetOrderPropertyValue(pv.id, pv.value) {
			return last, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order property %d not found on the current variation", pv.id))
		}
	}
	return last, nil
}

type report struct {
	SessionID         string                `json:"sessionId"`
	VariationID       *int                  `json:"variationId"`
	VariationSelected bool                  `json:"variationSelected"`
	Outcome           engine.Outcome        `json:"outcome"`
	Notifications     []notify.Notification `json:"notifications"`
	OrderQuantity     decimal.Decimal       `json:"orderQuantity"`
	GraduatedPrice    *types.PriceTier      `json:"graduatedPrice"`
	TotalPrice        pricing.Total         `json:"totalPrice"`
	Properties        []properties.Group    `json:"properties"`
	MissingProperties []types.PropertyEntry `json:"missingProperties"`
}

func buildReport(e *engine.Engine, last engine.Outcome, recorder *notify.Recorder) report {
	r := report{
		SessionID:         e.SessionID(),
		VariationSelected: e.IsVariationSelected(),
		Outcome:           last,
		OrderQuantity:     e.OrderQuantity(),
		GraduatedPrice:    e.GraduatedPrice(),
		TotalPrice:        e.TotalPrice(),
		Properties:        e.GroupedProperties(),
		MissingProperties: e.MissingProperties(),
	}
	if v, ok := e.CurrentVariation(); ok {
		id := v.VariationID
		r.VariationID = &id
	}
	if recorder != nil {
		r.Notifications = recorder.Notifications()
	}
	return r
}

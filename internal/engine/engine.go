// Package engine ties selection state, resolution, correction, detail fetching
// and price/property derivation together for one product view.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/corrector"
	"github.com/angelmondragon/packfinderz-variations/internal/detail"
	"github.com/angelmondragon/packfinderz-variations/internal/localization"
	"github.com/angelmondragon/packfinderz-variations/internal/notify"
	"github.com/angelmondragon/packfinderz-variations/internal/pricing"
	"github.com/angelmondragon/packfinderz-variations/internal/resolver"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Observer receives an event for every variation whose detail became current.
type Observer func(types.VariationChanged)

// Engine owns the selection of one product view. All selection changes run the
// full resolve, correct, re-resolve cycle under one lock.
type Engine struct {
	mu sync.Mutex

	sessionID string
	logg      *logger.Logger
	metrics   *metrics.VariationMetrics
	memoSize  int

	resolver   *resolver.Resolver
	corrector  *corrector.Corrector
	labeler    *corrector.Labeler
	translator corrector.Translator
	details    *detail.Cache
	notifier   notify.Sink
	offer      pricing.SpecialOffer

	requireProperties bool
	autoClose         time.Duration
	separator         string

	state       *selection.State
	resolved    *catalog.Variation
	current     *types.ResolvedVariation
	quantity    decimal.Decimal
	markInvalid bool
	seq         uint64

	observers    map[int]Observer
	nextObserver int
}

// New builds an engine over index with an all-unset selection.
func New(index *catalog.Index, opts ...Option) (*Engine, error) {
	if index == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation index required")
	}
	e := &Engine{
		sessionID:         uuid.NewString(),
		logg:              logger.Nop(),
		requireProperties: true,
		autoClose:         defaultAutoClose,
		separator:         defaultSeparator,
		offer:             pricing.DefaultSpecialOffer,
		quantity:          decimal.NewFromInt(1),
		observers:         make(map[int]Observer),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.details == nil {
		e.details = detail.NewCache(nil, detail.WithLogger(e.logg), detail.WithMetrics(e.metrics))
	}
	if e.notifier == nil {
		e.notifier = notify.NewLogSink(e.logg)
	}
	if e.translator == nil {
		translator, err := localization.New(defaultLanguage)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default messages")
		}
		e.translator = translator
	}

	r, err := resolver.New(index, resolver.WithMemoSize(e.memoSize), resolver.WithMetrics(e.metrics))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create resolver")
	}
	e.resolver = r
	e.corrector = corrector.New(r, e.translator, corrector.WithMetrics(e.metrics))
	e.labeler = corrector.NewLabeler(r, e.translator)
	e.state = selection.New(index.AttributeIDs(), nil)

	e.logg.Debug(e.context(context.Background()), fmt.Sprintf("variation index loaded with %d variations", len(index.Variations())))
	return e, nil
}

// SessionID identifies this engine in logs.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Reset loads a new index, clears the selection and drops the filter memo.
// Cached variation details are kept.
func (e *Engine) Reset(ctx context.Context, index *catalog.Index) error {
	if index == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variation index required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resolver.Reset(index)
	e.state = selection.New(index.AttributeIDs(), nil)
	e.resolved = nil
	e.current = nil
	e.quantity = decimal.NewFromInt(1)
	e.markInvalid = false
	e.seq++
	e.logg.Debug(e.context(ctx), fmt.Sprintf("variation index loaded with %d variations", len(index.Variations())))
	return nil
}

// Preselect initializes the selection from an existing variation, the way a
// product page opens on a concrete variation.
func (e *Engine) Preselect(ctx context.Context, variationID int) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index := e.resolver.Index()
	variation, ok := index.Variation(variationID)
	if !ok {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variation %d not found", variationID))
	}
	state := selection.New(index.AttributeIDs(), variation.UnitCombinationID)
	for _, attr := range variation.Attributes {
		state.SetAttribute(attr.AttributeID, catalog.IntPtr(attr.AttributeValueID))
	}
	e.state = state

	resolved, ok := e.resolver.ResolveCurrent(e.state)
	if !ok {
		return e.unresolvedLocked(), nil
	}
	return e.resolvedLocked(ctx, resolved), nil
}

// SelectAttribute sets attributeID to valueID (nil clears it). Unknown
// attributes are ignored.
func (e *Engine) SelectAttribute(ctx context.Context, attributeID int, valueID *int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Known(attributeID) {
		e.logg.Warn(e.context(ctx), fmt.Sprintf("ignoring selection of unknown attribute %d", attributeID))
		return e.snapshotLocked()
	}
	if !e.state.SetAttribute(attributeID, valueID) {
		return e.snapshotLocked()
	}
	return e.settleLocked(ctx, corrector.AttributeChange(attributeID, valueID))
}

// SelectUnit switches the selected unit.
func (e *Engine) SelectUnit(ctx context.Context, unitID int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	unit := catalog.IntPtr(unitID)
	e.state.SetUnit(unit)
	return e.settleLocked(ctx, corrector.UnitChange(unit))
}

func (e *Engine) settleLocked(ctx context.Context, change corrector.Change) Outcome {
	if variation, ok := e.resolver.ResolveCurrent(e.state); ok {
		return e.resolvedLocked(ctx, variation)
	}

	result := e.corrector.Correct(e.state, change)
	var out Outcome
	if result.Resolved {
		out = e.resolvedLocked(ctx, result.Variation)
	} else {
		out = e.unresolvedLocked()
	}
	out.Corrected = result.Applied
	out.Messages = result.Messages

	if result.Applied {
		e.logg.Info(e.context(ctx), fmt.Sprintf("selection corrected: %d attributes reset, unit changed %t",
			len(result.Delta.AttributesToReset), result.Delta.UnitChanged))
	}
	if len(result.Messages) > 0 {
		e.notifier.Warn(ctx, strings.Join(result.Messages, e.separator), e.autoClose)
	}
	return out
}

func (e *Engine) unresolvedLocked() Outcome {
	e.resolved = nil
	e.seq++
	return e.snapshotLocked()
}

// resolvedLocked makes variation current and starts loading its detail. Only
// the most recent request may replace the current detail.
func (e *Engine) resolvedLocked(ctx context.Context, variation catalog.Variation) Outcome {
	e.resolved = &variation
	e.seq++
	seq := e.seq

	future := e.details.Fetch(ctx, variation.VariationID)
	pending := newPending()
	go e.applyDetail(ctx, seq, variation, future, pending)

	out := e.snapshotLocked()
	out.pending = pending
	return out
}

func (e *Engine) applyDetail(ctx context.Context, seq uint64, variation catalog.Variation, future *detail.Future, pending *pending) {
	payload, err := future.Wait(ctx)
	ctx = e.logg.WithVariationID(e.context(ctx), variation.VariationID)

	e.mu.Lock()
	switch {
	case err != nil:
		e.mu.Unlock()
		e.logg.Error(ctx, "variation detail unavailable", err)
		pending.finish(err)
		return
	case seq != e.seq:
		e.mu.Unlock()
		e.logg.Debug(ctx, "discarding detail of superseded selection")
		pending.finish(pkgerrors.New(pkgerrors.CodeConflict, "selection changed before the variation detail arrived"))
		return
	}

	e.current = payload.Clone()
	e.quantity = decimal.NewFromInt(1)
	if primary := e.current.Primary(); primary != nil {
		e.quantity = pricing.OrderQuantity(primary.Variation)
	}
	event := types.VariationChanged{
		VariationID: variation.VariationID,
		Attributes:  e.current.Attributes,
		Documents:   e.current.Documents,
	}
	if len(event.Attributes) == 0 {
		event.Attributes = variation.Attributes
	}
	observers := make([]Observer, 0, len(e.observers))
	for id := 0; id < e.nextObserver; id++ {
		if observer, ok := e.observers[id]; ok {
			observers = append(observers, observer)
		}
	}
	e.mu.Unlock()

	for _, observer := range observers {
		observer(event)
	}
	pending.finish(nil)
}

// Subscribe registers observer for variation changes, in registration order.
func (e *Engine) Subscribe(observer Observer) (unsubscribe func()) {
	if observer == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = observer
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.observers, id)
			e.mu.Unlock()
		})
	}
}

func (e *Engine) snapshotLocked() Outcome {
	out := Outcome{
		Attributes: e.state.Attributes(),
		Unit:       e.state.Unit(),
	}
	if e.resolved != nil {
		variation := *e.resolved
		out.Variation = &variation
	}
	return out
}

func (e *Engine) context(ctx context.Context) context.Context {
	ctx = e.logg.WithSessionID(ctx, e.sessionID)
	return e.logg.WithProductID(ctx, e.resolver.Index().ProductID())
}

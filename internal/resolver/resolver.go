package resolver

import (
	"fmt"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
)

const defaultMemoSize = 512

type memoKey struct {
	attributes string
	unit       string
	strict     bool
}

// Option configures optional resolver behavior.
type Option func(*Resolver)

// WithMemoSize bounds the number of memoized filter results.
func WithMemoSize(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.memoSize = size
		}
	}
}

// WithMetrics records memo hits and misses.
func WithMetrics(m *metrics.VariationMetrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolver filters a product's variations against a selection.
// Filter results are pure functions of (variations, attributes, unit, strict)
// and are memoized until a new index is loaded.
type Resolver struct {
	mu       sync.RWMutex
	index    *catalog.Index
	memo     *lru.Cache[memoKey, []catalog.Variation]
	memoSize int
	metrics  *metrics.VariationMetrics
}

// New constructs a resolver over index.
func New(index *catalog.Index, opts ...Option) (*Resolver, error) {
	if index == nil {
		return nil, fmt.Errorf("variation index required")
	}
	r := &Resolver{index: index, memoSize: defaultMemoSize}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	memo, err := lru.New[memoKey, []catalog.Variation](r.memoSize)
	if err != nil {
		return nil, fmt.Errorf("create filter memo: %w", err)
	}
	r.memo = memo
	return r, nil
}

// Index returns the index the resolver currently filters.
func (r *Resolver) Index() *catalog.Index {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Reset swaps in a newly loaded index and drops every memoized result.
func (r *Resolver) Reset(index *catalog.Index) {
	if index == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = index
	r.memo.Purge()
}

// MemoLen reports how many filter results are memoized.
func (r *Resolver) MemoLen() int {
	return r.memo.Len()
}

// Filter returns the variations matching attrs and unitID. With strict set an
// unset attribute must also be unset on the candidate; otherwise it is a wildcard.
// The returned slice is shared with the memo and must not be modified.
func (r *Resolver) Filter(attrs selection.Attributes, unitID *int, strict bool) []catalog.Variation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := memoKey{attributes: attrs.Key(), unit: unitKey(unitID), strict: strict}
	if cached, ok := r.memo.Get(key); ok {
		r.metrics.IncMemo(metrics.MemoHit)
		return cached
	}
	r.metrics.IncMemo(metrics.MemoMiss)

	hasCatalog := len(r.index.Attributes()) > 0
	emptyOptionSelected := len(attrs) > 0 && attrs.AllUnset()

	result := r.index.Qualify(func(v catalog.Variation) bool {
		if !v.HasUnit(unitID) {
			return false
		}
		if hasCatalog && emptyOptionSelected != (len(v.Attributes) == 0) {
			return false
		}
		for attributeID, selected := range attrs {
			candidate, ok := v.ValueOf(attributeID)
			if !ok {
				continue
			}
			if selected == nil {
				if strict {
					return false
				}
				continue
			}
			if candidate != *selected {
				return false
			}
		}
		return true
	})

	r.memo.Add(key, result)
	return result
}

// ResolveCurrent returns the single variation strictly matching state.
func (r *Resolver) ResolveCurrent(state *selection.State) (catalog.Variation, bool) {
	matches := r.Filter(state.Attributes(), state.Unit(), true)
	if len(matches) != 1 {
		return catalog.Variation{}, false
	}
	return matches[0], true
}

// IsAttributeChoiceValid reports whether selecting valueID for attributeID keeps
// at least one variation reachable.
func (r *Resolver) IsAttributeChoiceValid(state *selection.State, attributeID int, valueID *int) bool {
	if catalog.SameID(state.Value(attributeID), valueID) {
		return true
	}
	return len(r.Filter(state.Attributes().With(attributeID, valueID), state.Unit(), false)) > 0
}

// IsUnitChoiceValid reports whether switching to unitID keeps at least one variation reachable.
func (r *Resolver) IsUnitChoiceValid(state *selection.State, unitID int) bool {
	if catalog.SameID(state.Unit(), &unitID) {
		return true
	}
	return len(r.Filter(state.Attributes(), &unitID, false)) > 0
}

func unitKey(unitID *int) string {
	if unitID == nil {
		return "null"
	}
	return strconv.Itoa(*unitID)
}

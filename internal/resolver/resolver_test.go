package resolver

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	ct "github.com/angelmondragon/packfinderz-variations/internal/catalog/catalogtest"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
)

func newResolver(t *testing.T, variations ...catalog.Variation) (*Resolver, *catalog.Index) {
	t.Helper()
	idx := ct.Index(t, variations...)
	r, err := New(idx)
	require.NoError(t, err)
	return r, idx
}

func stateFor(idx *catalog.Index, unit *int, pairs ...int) *selection.State {
	s := selection.New(idx.AttributeIDs(), unit)
	for i := 0; i+1 < len(pairs); i += 2 {
		s.SetAttribute(pairs[i], catalog.IntPtr(pairs[i+1]))
	}
	return s
}

func ids(variations []catalog.Variation) []int {
	out := make([]int, 0, len(variations))
	for _, v := range variations {
		out = append(out, v.VariationID)
	}
	return out
}

func TestNewRequiresIndex(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestResolveCurrentSingleAttribute(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, nil, ct.Color, ct.Red),
		ct.V(2, nil, ct.Color, ct.Blue),
	)

	got, ok := r.ResolveCurrent(stateFor(idx, nil, ct.Color, ct.Red))
	require.True(t, ok)
	assert.Equal(t, 1, got.VariationID)

	_, ok = r.ResolveCurrent(stateFor(idx, nil, ct.Color, ct.Green))
	assert.False(t, ok, "no variation exists for green")
}

func TestResolveCurrentIncompleteSelectionIsNone(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, nil, ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(2, nil, ct.Color, ct.Red, ct.Size, ct.Medium),
	)

	_, ok := r.ResolveCurrent(stateFor(idx, nil, ct.Color, ct.Red))
	assert.False(t, ok, "strict filter treats unset size as must-be-unset")
	assert.ElementsMatch(t, []int{1, 2}, ids(r.Filter(stateFor(idx, nil, ct.Color, ct.Red).Attributes(), nil, false)))
}

func TestFilterExactnessAndUniqueness(t *testing.T) {
	variations := []catalog.Variation{
		ct.V(1, ct.Unit(ct.Box), ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(2, ct.Unit(ct.Bag), ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(3, ct.Unit(ct.Box), ct.Color, ct.Blue, ct.Size, ct.Small),
		ct.V(4, ct.Unit(ct.Box), ct.Color, ct.Blue, ct.Size, ct.Medium),
	}
	r, idx := newResolver(t, variations...)

	for _, v := range variations {
		pairs := make([]int, 0)
		for _, attr := range v.Attributes {
			pairs = append(pairs, attr.AttributeID, attr.AttributeValueID)
		}
		got, ok := r.ResolveCurrent(stateFor(idx, v.UnitCombinationID, pairs...))
		require.True(t, ok, "variation %d", v.VariationID)
		assert.Equal(t, v.VariationID, got.VariationID)
	}
}

func TestFilterUnitMustMatch(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, ct.Unit(ct.Box), ct.Size, ct.Small),
		ct.V(2, ct.Unit(ct.Bag), ct.Size, ct.Small),
	)
	attrs := stateFor(idx, nil, ct.Size, ct.Small).Attributes()

	assert.Equal(t, []int{1}, ids(r.Filter(attrs, ct.Unit(ct.Box), true)))
	assert.Equal(t, []int{2}, ids(r.Filter(attrs, ct.Unit(ct.Bag), true)))
	assert.Empty(t, r.Filter(attrs, ct.Unit(ct.Can), false))
	assert.Empty(t, r.Filter(attrs, nil, false), "nil unit only matches variations without unit")
}

func TestFilterEmptyOption(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, nil),
		ct.V(2, nil, ct.Color, ct.Red),
	)

	empty := selection.New(idx.AttributeIDs(), nil)
	assert.Equal(t, []int{1}, ids(r.Filter(empty.Attributes(), nil, true)))
	assert.Equal(t, []int{1}, ids(r.Filter(empty.Attributes(), nil, false)), "all-null selection only matches the empty option")

	red := stateFor(idx, nil, ct.Color, ct.Red)
	assert.Equal(t, []int{2}, ids(r.Filter(red.Attributes(), nil, false)), "concrete selection never matches the empty option")
}

func TestFilterWithoutAttributeCatalog(t *testing.T) {
	idx, err := catalog.NewIndex(1, nil, ct.Units(), []catalog.Variation{
		ct.V(1, ct.Unit(ct.Box)),
		ct.V(2, ct.Unit(ct.Bag)),
	})
	require.NoError(t, err)
	r, err := New(idx)
	require.NoError(t, err)

	got, ok := r.ResolveCurrent(selection.New(nil, ct.Unit(ct.Bag)))
	require.True(t, ok)
	assert.Equal(t, 2, got.VariationID)
}

func TestFilterStrictVersusWildcard(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, nil, ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(2, nil, ct.Color, ct.Blue, ct.Size, ct.Small),
	)
	attrs := stateFor(idx, nil, ct.Size, ct.Small).Attributes()

	assert.Empty(t, r.Filter(attrs, nil, true))
	assert.Equal(t, []int{1, 2}, ids(r.Filter(attrs, nil, false)))
}

func TestFilterIsMemoizedAndDeterministic(t *testing.T) {
	reg := prometheus.NewRegistry()
	idx := ct.Index(t,
		ct.V(1, nil, ct.Color, ct.Red),
		ct.V(2, nil, ct.Color, ct.Blue),
	)
	r, err := New(idx, WithMemoSize(2), WithMetrics(metrics.NewVariationMetrics(reg)))
	require.NoError(t, err)

	attrs := stateFor(idx, nil, ct.Color, ct.Red).Attributes()
	first := r.Filter(attrs, nil, true)
	second := r.Filter(attrs.Clone(), nil, true)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, 1, r.MemoLen())

	r.Filter(attrs, nil, false)
	r.Filter(stateFor(idx, nil, ct.Color, ct.Blue).Attributes(), nil, false)
	assert.Equal(t, 2, r.MemoLen(), "memo is bounded")

	r.Reset(idx)
	assert.Equal(t, 0, r.MemoLen())
}

func TestResetSwapsIndex(t *testing.T) {
	r, idx := newResolver(t, ct.V(1, nil, ct.Color, ct.Red))
	attrs := stateFor(idx, nil, ct.Color, ct.Blue).Attributes()
	assert.Empty(t, r.Filter(attrs, nil, true))

	next := ct.Index(t, ct.V(5, nil, ct.Color, ct.Blue))
	r.Reset(next)
	assert.Equal(t, []int{5}, ids(r.Filter(attrs, nil, true)))
	assert.Same(t, next, r.Index())
}

func TestIsAttributeChoiceValid(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, nil, ct.Color, ct.Red, ct.Size, ct.Small),
		ct.V(2, nil, ct.Color, ct.Red, ct.Size, ct.Medium),
	)
	state := stateFor(idx, nil, ct.Color, ct.Red, ct.Size, ct.Small)

	assert.True(t, r.IsAttributeChoiceValid(state, ct.Size, catalog.IntPtr(ct.Small)), "already selected")
	assert.True(t, r.IsAttributeChoiceValid(state, ct.Size, catalog.IntPtr(ct.Medium)))
	assert.False(t, r.IsAttributeChoiceValid(state, ct.Size, catalog.IntPtr(ct.Large)))
	assert.False(t, r.IsAttributeChoiceValid(state, ct.Color, catalog.IntPtr(ct.Blue)))
	assert.True(t, r.IsAttributeChoiceValid(state, ct.Size, nil), "clearing size keeps red reachable")
}

func TestIsUnitChoiceValid(t *testing.T) {
	r, idx := newResolver(t,
		ct.V(1, ct.Unit(ct.Box), ct.Size, ct.Small),
		ct.V(2, ct.Unit(ct.Bag), ct.Size, ct.Medium),
	)
	state := stateFor(idx, ct.Unit(ct.Box), ct.Size, ct.Small)

	assert.True(t, r.IsUnitChoiceValid(state, ct.Box))
	assert.False(t, r.IsUnitChoiceValid(state, ct.Bag), "no bag with size S")
	assert.False(t, r.IsUnitChoiceValid(state, ct.Can))

	state.SetAttribute(ct.Size, nil)
	assert.False(t, r.IsUnitChoiceValid(state, ct.Bag), "all-null selection only matches empty options")
}

package detail

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Future is the pending result of a detail fetch.
type Future struct {
	variationID int
	done        chan struct{}
	once        sync.Once
	value       *types.ResolvedVariation
	err         error
}

func newFuture(variationID int) *Future {
	return &Future{variationID: variationID, done: make(chan struct{})}
}

func (f *Future) complete(value *types.ResolvedVariation, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

// VariationID is the id the future was created for.
func (f *Future) VariationID() int {
	return f.variationID
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome; only meaningful after Done is closed.
func (f *Future) Result() (*types.ResolvedVariation, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "variation fetch still pending")
	}
}

// Wait blocks until the result is available or ctx ends.
func (f *Future) Wait(ctx context.Context) (*types.ResolvedVariation, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, pkgerrors.FromContext(ctx.Err(), "wait for variation canceled")
	}
}

package engine

import (
	"context"
	"sync"

	"github.com/angelmondragon/packfinderz-variations/internal/catalog"
	"github.com/angelmondragon/packfinderz-variations/internal/selection"
	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
)

// Outcome describes the selection after one engine operation.
type Outcome struct {
	Variation  *catalog.Variation   `json:"variation"`
	Attributes selection.Attributes `json:"attributes"`
	Unit       *int                 `json:"unit"`
	Corrected  bool                 `json:"corrected"`
	Messages   []string             `json:"messages,omitempty"`

	pending *pending
}

// Resolved reports whether the selection identifies exactly one variation.
func (o Outcome) Resolved() bool {
	return o.Variation != nil
}

// Wait blocks until the resolved variation's detail was applied. It returns the
// fetch error, a CodeConflict error when a newer selection superseded it, or
// nil when there was nothing to load.
func (o Outcome) Wait(ctx context.Context) error {
	if o.pending == nil {
		return nil
	}
	select {
	case <-o.pending.done:
		return o.pending.err
	case <-ctx.Done():
		return pkgerrors.FromContext(ctx.Err(), "wait for variation detail canceled")
	}
}

type pending struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newPending() *pending {
	return &pending{done: make(chan struct{})}
}

func (p *pending) finish(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

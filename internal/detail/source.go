// Package detail loads variation detail payloads lazily and caches them for
// the session.
package detail

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Source fetches the detail payload of one variation. Failures carry
// CodeNotFound or CodeDependency.
type Source interface {
	Fetch(ctx context.Context, variationID int) (*types.ResolvedVariation, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, variationID int) (*types.ResolvedVariation, error)

func (f SourceFunc) Fetch(ctx context.Context, variationID int) (*types.ResolvedVariation, error) {
	return f(ctx, variationID)
}

// StaticSource serves payloads bundled with a product file.
type StaticSource map[int]types.ResolvedVariation

func (s StaticSource) Fetch(ctx context.Context, variationID int) (*types.ResolvedVariation, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.FromContext(err, "variation fetch canceled")
	}
	payload, ok := s[variationID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variation %d not found", variationID))
	}
	if payload.VariationID == 0 {
		payload.VariationID = variationID
	}
	return payload.Clone(), nil
}

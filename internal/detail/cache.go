package detail

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

// Store is a shared second-level cache for detail payloads.
type Store interface {
	Get(ctx context.Context, variationID int) (*types.ResolvedVariation, bool, error)
	Set(ctx context.Context, payload *types.ResolvedVariation) error
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a shared cache consulted before the source.
func WithStore(store Store) Option {
	return func(c *Cache) {
		c.store = store
	}
}

func WithMetrics(m *metrics.VariationMetrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Cache) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// Cache keeps every fetched payload for the session. Concurrent fetches of one
// id share a single request. Entries are never invalidated.
type Cache struct {
	source  Source
	store   Store
	metrics *metrics.VariationMetrics
	logg    *logger.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[int]*types.ResolvedVariation
}

func NewCache(source Source, opts ...Option) *Cache {
	c := &Cache{
		source:  source,
		logg:    logger.Nop(),
		entries: make(map[int]*types.ResolvedVariation),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns a cached payload without fetching.
func (c *Cache) Get(variationID int) (*types.ResolvedVariation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	payload, ok := c.entries[variationID]
	return payload, ok
}

// Put seeds the cache with a known payload.
func (c *Cache) Put(payload *types.ResolvedVariation) {
	if payload == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[payload.VariationID] = payload
}

// Len reports the number of cached payloads.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns a future for the payload of variationID. Cancelling ctx
// resolves the future with CodeCanceled; the shared request keeps running so
// other waiters and the cache still receive its result.
func (c *Cache) Fetch(ctx context.Context, variationID int) *Future {
	future := newFuture(variationID)
	if payload, ok := c.Get(variationID); ok {
		c.metrics.ObserveFetch(metrics.SourceMemory, 0)
		future.complete(payload, nil)
		return future
	}

	shared := context.WithoutCancel(ctx)
	results := c.group.DoChan(strconv.Itoa(variationID), func() (any, error) {
		return c.load(shared, variationID)
	})

	go func() {
		select {
		case res := <-results:
			payload, _ := res.Val.(*types.ResolvedVariation)
			future.complete(payload, res.Err)
		case <-ctx.Done():
			future.complete(nil, pkgerrors.FromContext(ctx.Err(), "variation fetch canceled"))
		}
	}()
	return future
}

func (c *Cache) load(ctx context.Context, variationID int) (*types.ResolvedVariation, error) {
	if payload, ok := c.Get(variationID); ok {
		return payload, nil
	}
	ctx = c.logg.WithVariationID(ctx, variationID)

	start := time.Now()
	if c.store != nil {
		payload, ok, err := c.store.Get(ctx, variationID)
		switch {
		case err != nil:
			c.logg.Warn(ctx, fmt.Sprintf("variation cache read failed: %v", err))
		case ok:
			c.Put(payload)
			c.metrics.ObserveFetch(metrics.SourceRedis, time.Since(start))
			return payload, nil
		}
	}

	if c.source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "variation detail source not configured")
	}
	payload, err := c.source.Fetch(ctx, variationID)
	if err != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		c.metrics.IncFetchFailure(string(code))
		c.logg.Error(ctx, "variation fetch failed", err)
		return nil, err
	}
	if payload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variation %d not found", variationID))
	}
	if payload.VariationID == 0 {
		payload.VariationID = variationID
	}

	c.Put(payload)
	c.metrics.ObserveFetch(metrics.SourceRemote, time.Since(start))
	if c.store != nil {
		if err := c.store.Set(ctx, payload); err != nil {
			c.logg.Warn(ctx, fmt.Sprintf("variation cache write failed: %v", err))
		}
	}
	return payload, nil
}

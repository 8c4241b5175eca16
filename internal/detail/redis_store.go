package detail

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/angelmondragon/packfinderz-variations/pkg/errors"
	"github.com/angelmondragon/packfinderz-variations/pkg/redis"
	"github.com/angelmondragon/packfinderz-variations/pkg/types"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	VariationKey(variationID int) string
}

// RedisStore shares detail payloads between processes as JSON documents.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, variationID int) (*types.ResolvedVariation, bool, error) {
	raw, err := s.client.Get(ctx, s.client.VariationKey(variationID))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cached variation")
	}
	var payload types.ResolvedVariation
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cached variation")
	}
	return &payload, true, nil
}

func (s *RedisStore) Set(ctx context.Context, payload *types.ResolvedVariation) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode variation")
	}
	if err := s.client.Set(ctx, s.client.VariationKey(payload.VariationID), raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cached variation")
	}
	return nil
}

package usecase

import (
	"context"
	"log"
	"time"
)

type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// memoJSON serves key from cache when present, otherwise computes and stores
// it. Cache failures never fail the call.
func memoJSON[T any](ctx context.Context, cache SearchCache, logger *log.Logger, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if cache != nil {
		var cached T
		hit, err := cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			logger.Printf("[Jobs] Cache HIT: %s", key)
			return cached, nil
		}
		logger.Printf("[Jobs] Cache MISS: %s", key)
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	if cache != nil {
		if err := cache.SetJSON(ctx, key, v, ttl); err != nil {
			logger.Printf("[Jobs] Cache SET failed: %s err=%v", key, err)
		}
	}
	return v, nil
}

package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited throttles calls to the wrapped provider.
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so at most perMinute calls start per minute. A
// non-positive perMinute returns p unchanged.
func WithRateLimit(p Provider, perMinute, burst int) Provider {
	if perMinute <= 0 {
		return p
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

func (r *RateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: rate limit: %w", r.Name(), err)
	}
	return r.Provider.Generate(ctx, prompt)
}

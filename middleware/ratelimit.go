package middleware

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/xraph/timelock"
)

// RateLimitConfig defines per-caller throttling for a set of operations.
type RateLimitConfig struct {
	// Ops restricts the limiter to these operation names. Empty means
	// every operation.
	Ops []string

	// Limit is the maximum sustained operations per second per caller.
	Limit float64

	// Burst is the token-bucket burst size. Defaults to 1 if Limit is
	// set but Burst is zero.
	Burst int
}

// RateLimit returns middleware that throttles operations per caller with
// a token bucket. A caller over its budget fails fast with
// timelock.ErrRateLimited; nothing is retried internally.
func RateLimit(cfg RateLimitConfig) Middleware {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	opSet := make(map[string]struct{}, len(cfg.Ops))
	for _, op := range cfg.Ops {
		opSet[op] = struct{}{}
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(ctx context.Context, op Op, next Handler) error {
		if len(opSet) > 0 {
			if _, ok := opSet[op.Name]; !ok {
				return next(ctx)
			}
		}

		mu.Lock()
		lim, ok := limiters[op.Caller.String()]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(cfg.Limit), burst)
			limiters[op.Caller.String()] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			return fmt.Errorf("%w: %s by %s", timelock.ErrRateLimited, op.Name, op.Caller)
		}
		return next(ctx)
	}
}

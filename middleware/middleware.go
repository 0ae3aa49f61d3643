// Package middleware provides composable middleware for engine operations.
// Middleware wraps operation calls synchronously and can modify execution
// (recover from panics, log, rate limit, record metrics, etc.).
package middleware

import (
	"context"

	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Op describes the operation being performed, for middleware that needs
// to log or key on it.
type Op struct {
	// Name is the operation name ("submit_job", "place_bid", ...).
	Name string
	// Caller is the identity invoking the operation.
	Caller id.AccountID
	// Fingerprint is the job being operated on. Zero for delay updates.
	Fingerprint job.Fingerprint
}

// Handler is the terminal function that executes operation logic.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the operation being performed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, op Op, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, ratelimit) executes as:
//
//	logging → recover → ratelimit → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, prev)
			}
		}
		return h(ctx)
	}
}

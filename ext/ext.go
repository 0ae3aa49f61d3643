package ext

import (
	"context"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Configuration hooks
// ──────────────────────────────────────────────────

// DelayUpdated is called after the Submitter changes the execution delay.
type DelayUpdated interface {
	OnDelayUpdated(ctx context.Context, oldDelay, newDelay time.Duration) error
}

// ──────────────────────────────────────────────────
// Job lifecycle hooks
// ──────────────────────────────────────────────────

// JobSubmitted is called after a job is opened and its value escrowed.
// The record carries the fingerprint and the full descriptor.
type JobSubmitted interface {
	OnJobSubmitted(ctx context.Context, r *job.Record) error
}

// BidPlaced is called after a strictly improving bid is accepted.
// prevBidder is nil and prevBid zero when this is the first bid.
type BidPlaced interface {
	OnBidPlaced(ctx context.Context, r *job.Record, prevBidder id.AccountID, prevBid timelock.Amount) error
}

// JobExecuted is called after a job executes and settles. output is what
// the call dispatcher returned.
type JobExecuted interface {
	OnJobExecuted(ctx context.Context, r *job.Record, output []byte) error
}

// JobCancelled is called after a lapsed auction is cancelled and refunded.
type JobCancelled interface {
	OnJobCancelled(ctx context.Context, r *job.Record) error
}

package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/ext"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Compile-time interface checks.
var (
	_ ext.Extension    = (*Recorder)(nil)
	_ ext.DelayUpdated = (*Recorder)(nil)
	_ ext.JobSubmitted = (*Recorder)(nil)
	_ ext.BidPlaced    = (*Recorder)(nil)
	_ ext.JobExecuted  = (*Recorder)(nil)
	_ ext.JobCancelled = (*Recorder)(nil)
)

// Recorder bridges engine lifecycle events to the audit journal.
// Each hook appends one immutable entry through the Store.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithClock sets the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a Recorder that journals through the given store.
func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements ext.Extension.
func (r *Recorder) Name() string { return "audit-journal" }

// OnDelayUpdated implements ext.DelayUpdated.
func (r *Recorder) OnDelayUpdated(ctx context.Context, oldDelay, newDelay time.Duration) error {
	return r.append(ctx, &Entry{
		Action: ActionDelayUpdated,
		Detail: fmt.Sprintf("delay %s -> %s", oldDelay, newDelay),
	})
}

// OnJobSubmitted implements ext.JobSubmitted.
func (r *Recorder) OnJobSubmitted(ctx context.Context, rec *job.Record) error {
	return r.append(ctx, &Entry{
		Action:      ActionJobSubmitted,
		Fingerprint: rec.Fingerprint,
		Kind:        rec.Kind,
		Amount:      rec.Held(),
		Detail:      fmt.Sprintf("target %s escrowed %s", rec.Target, rec.Held()),
	})
}

// OnBidPlaced implements ext.BidPlaced.
func (r *Recorder) OnBidPlaced(ctx context.Context, rec *job.Record, prevBidder id.AccountID, prevBid timelock.Amount) error {
	detail := fmt.Sprintf("bid %s", rec.BestBid)
	if !prevBidder.IsNil() {
		detail = fmt.Sprintf("bid %s beats %s by %s", rec.BestBid, prevBid, prevBidder)
	}
	return r.append(ctx, &Entry{
		Action:      ActionBidPlaced,
		Fingerprint: rec.Fingerprint,
		Kind:        rec.Kind,
		Actor:       rec.BestBidder,
		Amount:      rec.BestBid,
		Detail:      detail,
	})
}

// OnJobExecuted implements ext.JobExecuted.
func (r *Recorder) OnJobExecuted(ctx context.Context, rec *job.Record, output []byte) error {
	actor := rec.BestBidder
	return r.append(ctx, &Entry{
		Action:      ActionJobExecuted,
		Fingerprint: rec.Fingerprint,
		Kind:        rec.Kind,
		Actor:       actor,
		Amount:      rec.Held(),
		Detail:      fmt.Sprintf("target %s settled %s, %d output bytes", rec.Target, rec.Held(), len(output)),
	})
}

// OnJobCancelled implements ext.JobCancelled.
func (r *Recorder) OnJobCancelled(ctx context.Context, rec *job.Record) error {
	return r.append(ctx, &Entry{
		Action:      ActionJobCancelled,
		Fingerprint: rec.Fingerprint,
		Kind:        rec.Kind,
		Actor:       rec.BestBidder,
		Amount:      rec.Held(),
		Detail:      fmt.Sprintf("refunded %s", rec.Held()),
	})
}

// Journal returns the underlying audit store for direct access to
// Get, List, Purge, and Count operations.
func (r *Recorder) Journal() Store { return r.store }

func (r *Recorder) append(ctx context.Context, entry *Entry) error {
	entry.ID = id.NewAuditID()
	entry.CreatedAt = r.now()
	return r.store.AppendAudit(ctx, entry)
}

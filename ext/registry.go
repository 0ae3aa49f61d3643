package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type delayUpdatedEntry struct {
	name string
	hook DelayUpdated
}

type jobSubmittedEntry struct {
	name string
	hook JobSubmitted
}

type bidPlacedEntry struct {
	name string
	hook BidPlaced
}

type jobExecutedEntry struct {
	name string
	hook JobExecuted
}

type jobCancelledEntry struct {
	name string
	hook JobCancelled
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	delayUpdated []delayUpdatedEntry
	jobSubmitted []jobSubmittedEntry
	bidPlaced    []bidPlacedEntry
	jobExecuted  []jobExecutedEntry
	jobCancelled []jobCancelledEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(DelayUpdated); ok {
		r.delayUpdated = append(r.delayUpdated, delayUpdatedEntry{name, h})
	}
	if h, ok := e.(JobSubmitted); ok {
		r.jobSubmitted = append(r.jobSubmitted, jobSubmittedEntry{name, h})
	}
	if h, ok := e.(BidPlaced); ok {
		r.bidPlaced = append(r.bidPlaced, bidPlacedEntry{name, h})
	}
	if h, ok := e.(JobExecuted); ok {
		r.jobExecuted = append(r.jobExecuted, jobExecutedEntry{name, h})
	}
	if h, ok := e.(JobCancelled); ok {
		r.jobCancelled = append(r.jobCancelled, jobCancelledEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitDelayUpdated notifies all extensions that implement DelayUpdated.
func (r *Registry) EmitDelayUpdated(ctx context.Context, oldDelay, newDelay time.Duration) {
	for _, e := range r.delayUpdated {
		if err := e.hook.OnDelayUpdated(ctx, oldDelay, newDelay); err != nil {
			r.logHookError("OnDelayUpdated", e.name, err)
		}
	}
}

// EmitJobSubmitted notifies all extensions that implement JobSubmitted.
func (r *Registry) EmitJobSubmitted(ctx context.Context, rec *job.Record) {
	for _, e := range r.jobSubmitted {
		if err := e.hook.OnJobSubmitted(ctx, rec); err != nil {
			r.logHookError("OnJobSubmitted", e.name, err)
		}
	}
}

// EmitBidPlaced notifies all extensions that implement BidPlaced.
func (r *Registry) EmitBidPlaced(ctx context.Context, rec *job.Record, prevBidder id.AccountID, prevBid timelock.Amount) {
	for _, e := range r.bidPlaced {
		if err := e.hook.OnBidPlaced(ctx, rec, prevBidder, prevBid); err != nil {
			r.logHookError("OnBidPlaced", e.name, err)
		}
	}
}

// EmitJobExecuted notifies all extensions that implement JobExecuted.
func (r *Registry) EmitJobExecuted(ctx context.Context, rec *job.Record, output []byte) {
	for _, e := range r.jobExecuted {
		if err := e.hook.OnJobExecuted(ctx, rec, output); err != nil {
			r.logHookError("OnJobExecuted", e.name, err)
		}
	}
}

// EmitJobCancelled notifies all extensions that implement JobCancelled.
func (r *Registry) EmitJobCancelled(ctx context.Context, rec *job.Record) {
	for _, e := range r.jobCancelled {
		if err := e.hook.OnJobCancelled(ctx, rec); err != nil {
			r.logHookError("OnJobCancelled", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block settlement.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}

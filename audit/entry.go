package audit

import (
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Action identifies the state transition an entry records.
type Action string

// Action constants for all journaled transitions.
const (
	ActionDelayUpdated Action = "delay_updated"
	ActionJobSubmitted Action = "job_submitted"
	ActionBidPlaced    Action = "bid_placed"
	ActionJobExecuted  Action = "job_executed"
	ActionJobCancelled Action = "job_cancelled"
)

// Entry is a single journaled state transition.
type Entry struct {
	ID          id.AuditID      `json:"id"`
	Action      Action          `json:"action"`
	Fingerprint job.Fingerprint `json:"fingerprint,omitempty"`
	Kind        job.Kind        `json:"kind,omitempty"`

	// Actor is the winning or bidding identity where one exists. Nil for
	// delay updates (always the Submitter) and simple-job executions
	// (always the configured Executor).
	Actor id.AccountID `json:"actor,omitempty"`

	// Amount is the value that moved or was committed by the transition.
	Amount timelock.Amount `json:"amount,omitempty"`

	// Detail is a short human-readable summary.
	Detail string `json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

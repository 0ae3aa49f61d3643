package audit

import (
	"context"
	"time"

	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// ListOpts controls pagination and filtering for journal list queries.
type ListOpts struct {
	// Limit is the maximum number of entries to return. Zero means no limit.
	Limit int
	// Offset is the number of entries to skip.
	Offset int
	// Fingerprint filters to one job's history. Zero means all jobs.
	Fingerprint job.Fingerprint
	// Action filters by transition type. Empty means all actions.
	Action Action
}

// Store defines the persistence contract for the audit journal.
type Store interface {
	// AppendAudit persists a journal entry. Entries are immutable once
	// written.
	AppendAudit(ctx context.Context, entry *Entry) error

	// GetAudit retrieves a journal entry by ID. Returns
	// timelock.ErrAuditNotFound if no such entry exists.
	GetAudit(ctx context.Context, entryID id.AuditID) (*Entry, error)

	// ListAudit returns journal entries matching opts, oldest first.
	ListAudit(ctx context.Context, opts ListOpts) ([]*Entry, error)

	// PurgeAudit removes entries created before the given time.
	// Returns the number of entries removed.
	PurgeAudit(ctx context.Context, before time.Time) (int64, error)

	// CountAudit returns the total number of journal entries.
	CountAudit(ctx context.Context) (int64, error)
}

package job

import "context"

// ListOpts controls pagination and filtering for record list queries.
type ListOpts struct {
	// Limit is the maximum number of records to return. Zero means no limit.
	Limit int
	// Offset is the number of records to skip.
	Offset int
	// Kind filters by job kind. Empty means both kinds.
	Kind Kind
}

// CountOpts controls filtering for record count queries.
type CountOpts struct {
	// Kind filters by job kind. Empty means both kinds.
	Kind Kind
}

// Store defines the persistence contract for the job registry.
type Store interface {
	// CreateRecord persists a new open record. Returns
	// timelock.ErrJobAlreadyExists if the fingerprint is already open.
	CreateRecord(ctx context.Context, r *Record) error

	// GetRecord retrieves the open record for a fingerprint. Returns
	// timelock.ErrJobNotFound if the fingerprint has no open record.
	GetRecord(ctx context.Context, fp Fingerprint) (*Record, error)

	// UpdateRecord persists changes to an open record (bid mutations).
	UpdateRecord(ctx context.Context, r *Record) error

	// DeleteRecord clears a record. The fingerprint key persists only as
	// a hash, carrying no residual state.
	DeleteRecord(ctx context.Context, fp Fingerprint) error

	// ListRecords returns open records ordered by submission time.
	ListRecords(ctx context.Context, opts ListOpts) ([]*Record, error)

	// CountRecords returns the number of open records matching opts.
	CountRecords(ctx context.Context, opts CountOpts) (int64, error)
}

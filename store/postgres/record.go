package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// CreateRecord persists a new open record.
func (s *Store) CreateRecord(ctx context.Context, r *job.Record) error {
	var bidder *string
	if !r.BestBidder.IsNil() {
		v := r.BestBidder.String()
		bidder = &v
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO timelock_records (
			fingerprint, kind, target, value, signature, payload,
			reward, timeout_ns, best_bid, best_bidder,
			submitted_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12
		)`,
		r.Fingerprint.String(), string(r.Kind), r.Target.String(),
		int64(r.Value), r.Signature, r.Payload,
		int64(r.Reward), r.Timeout.Nanoseconds(), int64(r.BestBid), bidder,
		r.SubmittedAt, r.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return timelock.ErrJobAlreadyExists
		}
		return fmt.Errorf("timelock/postgres: create record: %w", err)
	}
	return nil
}

// GetRecord retrieves the open record for a fingerprint.
func (s *Store) GetRecord(ctx context.Context, fp job.Fingerprint) (*job.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT
			fingerprint, kind, target, value, signature, payload,
			reward, timeout_ns, best_bid, best_bidder,
			submitted_at, updated_at
		FROM timelock_records
		WHERE fingerprint = $1`,
		fp.String(),
	)

	r, err := scanRecord(row)
	if err != nil {
		if isNoRows(err) {
			return nil, timelock.ErrJobNotFound
		}
		return nil, fmt.Errorf("timelock/postgres: get record: %w", err)
	}
	return r, nil
}

// UpdateRecord persists changes to an open record.
func (s *Store) UpdateRecord(ctx context.Context, r *job.Record) error {
	var bidder *string
	if !r.BestBidder.IsNil() {
		v := r.BestBidder.String()
		bidder = &v
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE timelock_records SET
			kind = $2, target = $3, value = $4, signature = $5,
			payload = $6, reward = $7, timeout_ns = $8,
			best_bid = $9, best_bidder = $10, updated_at = $11
		WHERE fingerprint = $1`,
		r.Fingerprint.String(), string(r.Kind), r.Target.String(),
		int64(r.Value), r.Signature, r.Payload, int64(r.Reward),
		r.Timeout.Nanoseconds(), int64(r.BestBid), bidder, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("timelock/postgres: update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timelock.ErrJobNotFound
	}
	return nil
}

// DeleteRecord clears a record.
func (s *Store) DeleteRecord(ctx context.Context, fp job.Fingerprint) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM timelock_records WHERE fingerprint = $1`, fp.String())
	if err != nil {
		return fmt.Errorf("timelock/postgres: delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timelock.ErrJobNotFound
	}
	return nil
}

// ListRecords returns open records ordered by submission time, oldest first.
func (s *Store) ListRecords(ctx context.Context, opts job.ListOpts) ([]*job.Record, error) {
	query := `
		SELECT
			fingerprint, kind, target, value, signature, payload,
			reward, timeout_ns, best_bid, best_bidder,
			submitted_at, updated_at
		FROM timelock_records`

	args := []any{}
	if opts.Kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, string(opts.Kind))
	}
	query += ` ORDER BY submitted_at ASC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("timelock/postgres: list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// CountRecords returns the number of open records matching opts.
func (s *Store) CountRecords(ctx context.Context, opts job.CountOpts) (int64, error) {
	query := `SELECT COUNT(*) FROM timelock_records`
	args := []any{}
	if opts.Kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, string(opts.Kind))
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("timelock/postgres: count records: %w", err)
	}
	return count, nil
}

// ── scan helpers ──

func scanRecord(row pgx.Row) (*job.Record, error) {
	var (
		r         job.Record
		fpStr     string
		kindStr   string
		targetStr string
		value     int64
		reward    int64
		timeoutNs int64
		bestBid   int64
		bidderStr *string
	)
	err := row.Scan(
		&fpStr, &kindStr, &targetStr, &value, &r.Signature, &r.Payload,
		&reward, &timeoutNs, &bestBid, &bidderStr,
		&r.SubmittedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fp, parseErr := job.ParseFingerprint(fpStr)
	if parseErr != nil {
		return nil, fmt.Errorf("timelock/postgres: parse fingerprint %q: %w", fpStr, parseErr)
	}
	r.Fingerprint = fp
	r.Kind = job.Kind(kindStr)
	r.Value = timelock.Amount(value)
	r.Reward = timelock.Amount(reward)
	r.Timeout = time.Duration(timeoutNs)
	r.BestBid = timelock.Amount(bestBid)

	target, parseErr := id.ParseAccountID(targetStr)
	if parseErr != nil {
		return nil, fmt.Errorf("timelock/postgres: parse target %q: %w", targetStr, parseErr)
	}
	r.Target = target

	if bidderStr != nil && *bidderStr != "" {
		bidder, bidderErr := id.ParseAccountID(*bidderStr)
		if bidderErr == nil {
			r.BestBidder = bidder
		}
	}

	return &r, nil
}

// collectRecords collects all records from query rows.
func collectRecords(rows pgx.Rows) ([]*job.Record, error) {
	var records []*job.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("timelock/postgres: scan record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timelock/postgres: iterate record rows: %w", err)
	}
	return records, nil
}

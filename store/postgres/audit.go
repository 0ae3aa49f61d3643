package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/audit"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// AppendAudit persists a journal entry.
func (s *Store) AppendAudit(ctx context.Context, entry *audit.Entry) error {
	var fp *string
	if !entry.Fingerprint.IsZero() {
		v := entry.Fingerprint.String()
		fp = &v
	}
	var actor *string
	if !entry.Actor.IsNil() {
		v := entry.Actor.String()
		actor = &v
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO timelock_audit (
			id, action, fingerprint, kind, actor, amount, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID.String(), string(entry.Action), fp, string(entry.Kind),
		actor, int64(entry.Amount), entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("timelock/postgres: append audit: %w", err)
	}
	return nil
}

// GetAudit retrieves a journal entry by ID.
func (s *Store) GetAudit(ctx context.Context, entryID id.AuditID) (*audit.Entry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, action, fingerprint, kind, actor, amount, detail, created_at
		FROM timelock_audit
		WHERE id = $1`,
		entryID.String(),
	)

	e, err := scanEntry(row)
	if err != nil {
		if isNoRows(err) {
			return nil, timelock.ErrAuditNotFound
		}
		return nil, fmt.Errorf("timelock/postgres: get audit: %w", err)
	}
	return e, nil
}

// ListAudit returns journal entries matching opts, oldest first.
func (s *Store) ListAudit(ctx context.Context, opts audit.ListOpts) ([]*audit.Entry, error) {
	query := `
		SELECT id, action, fingerprint, kind, actor, amount, detail, created_at
		FROM timelock_audit`

	var (
		conds []string
		args  []any
	)
	if !opts.Fingerprint.IsZero() {
		args = append(args, opts.Fingerprint.String())
		conds = append(conds, fmt.Sprintf("fingerprint = $%d", len(args)))
	}
	if opts.Action != "" {
		args = append(args, string(opts.Action))
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY created_at ASC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("timelock/postgres: list audit: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		e, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("timelock/postgres: scan audit row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timelock/postgres: iterate audit rows: %w", err)
	}
	return entries, nil
}

// PurgeAudit removes entries created before the given time.
func (s *Store) PurgeAudit(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM timelock_audit WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("timelock/postgres: purge audit: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountAudit returns the total number of journal entries.
func (s *Store) CountAudit(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM timelock_audit`).Scan(&count); err != nil {
		return 0, fmt.Errorf("timelock/postgres: count audit: %w", err)
	}
	return count, nil
}

// ── scan helpers ──

func scanEntry(row pgx.Row) (*audit.Entry, error) {
	var (
		e        audit.Entry
		idStr    string
		action   string
		fpStr    *string
		kindStr  *string
		actorStr *string
		amount   int64
	)
	err := row.Scan(&idStr, &action, &fpStr, &kindStr, &actorStr, &amount, &e.Detail, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseAuditID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("timelock/postgres: parse audit id %q: %w", idStr, parseErr)
	}
	e.ID = parsedID
	e.Action = audit.Action(action)
	e.Amount = timelock.Amount(amount)

	if kindStr != nil {
		e.Kind = job.Kind(*kindStr)
	}
	if fpStr != nil && *fpStr != "" {
		fp, fpErr := job.ParseFingerprint(*fpStr)
		if fpErr == nil {
			e.Fingerprint = fp
		}
	}
	if actorStr != nil && *actorStr != "" {
		actor, actorErr := id.ParseAccountID(*actorStr)
		if actorErr == nil {
			e.Actor = actor
		}
	}

	return &e, nil
}

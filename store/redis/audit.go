package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/audit"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// AppendAudit stores the entry as a Hash and appends its ID to the log
// List, preserving append order.
func (s *Store) AppendAudit(ctx context.Context, entry *audit.Entry) error {
	eID := entry.ID.String()

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, auditKey(eID), entryToMap(entry))
	pipe.RPush(ctx, auditLogKey, eID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("timelock/redis: append audit: %w", err)
	}
	return nil
}

// GetAudit retrieves a journal entry by ID.
func (s *Store) GetAudit(ctx context.Context, entryID id.AuditID) (*audit.Entry, error) {
	vals, err := s.client.HGetAll(ctx, auditKey(entryID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: get audit: %w", err)
	}
	if len(vals) == 0 {
		return nil, timelock.ErrAuditNotFound
	}
	return mapToEntry(vals)
}

// ListAudit returns journal entries matching opts, oldest first.
func (s *Store) ListAudit(ctx context.Context, opts audit.ListOpts) ([]*audit.Entry, error) {
	ids, err := s.client.LRange(ctx, auditLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: list audit lrange: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(ids))
	for _, eID := range ids {
		vals, getErr := s.client.HGetAll(ctx, auditKey(eID)).Result()
		if getErr != nil || len(vals) == 0 {
			continue // skip missing
		}
		e, convErr := mapToEntry(vals)
		if convErr != nil {
			continue
		}
		if !opts.Fingerprint.IsZero() && e.Fingerprint != opts.Fingerprint {
			continue
		}
		if opts.Action != "" && e.Action != opts.Action {
			continue
		}
		entries = append(entries, e)
	}

	// Apply offset/limit.
	if opts.Offset >= len(entries) {
		return nil, nil
	}
	entries = entries[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(entries) {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// PurgeAudit removes entries created before the given time.
func (s *Store) PurgeAudit(ctx context.Context, before time.Time) (int64, error) {
	ids, err := s.client.LRange(ctx, auditLogKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("timelock/redis: purge audit lrange: %w", err)
	}

	var removed int64
	for _, eID := range ids {
		created, getErr := s.client.HGet(ctx, auditKey(eID), "created_at").Result()
		if getErr != nil {
			continue
		}
		at, parseErr := time.Parse(time.RFC3339Nano, created)
		if parseErr != nil || !at.Before(before) {
			continue
		}

		pipe := s.client.TxPipeline()
		pipe.Del(ctx, auditKey(eID))
		pipe.LRem(ctx, auditLogKey, 1, eID)
		if _, execErr := pipe.Exec(ctx); execErr != nil {
			return removed, fmt.Errorf("timelock/redis: purge audit: %w", execErr)
		}
		removed++
	}
	return removed, nil
}

// CountAudit returns the total number of journal entries.
func (s *Store) CountAudit(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, auditLogKey).Result()
	if err != nil {
		return 0, fmt.Errorf("timelock/redis: count audit: %w", err)
	}
	return n, nil
}

// ── helpers ──

func entryToMap(e *audit.Entry) map[string]interface{} {
	m := map[string]interface{}{
		"id":         e.ID.String(),
		"action":     string(e.Action),
		"kind":       string(e.Kind),
		"amount":     strconv.FormatUint(uint64(e.Amount), 10),
		"detail":     e.Detail,
		"created_at": e.CreatedAt.Format(time.RFC3339Nano),
	}
	if !e.Fingerprint.IsZero() {
		m["fingerprint"] = e.Fingerprint.String()
	}
	if !e.Actor.IsNil() {
		m["actor"] = e.Actor.String()
	}
	return m
}

func mapToEntry(m map[string]string) (*audit.Entry, error) {
	eID, err := id.ParseAuditID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: parse audit id: %w", err)
	}

	amount, _ := strconv.ParseUint(m["amount"], 10, 64)           //nolint:errcheck // best-effort parse from trusted Redis data
	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"]) //nolint:errcheck // best-effort parse from trusted Redis data

	e := &audit.Entry{
		ID:        eID,
		Action:    audit.Action(m["action"]),
		Kind:      job.Kind(m["kind"]),
		Amount:    timelock.Amount(amount),
		Detail:    m["detail"],
		CreatedAt: createdAt,
	}

	if fp := m["fingerprint"]; fp != "" {
		e.Fingerprint, _ = job.ParseFingerprint(fp) //nolint:errcheck // best-effort parse from trusted Redis data
	}
	if actor := m["actor"]; actor != "" {
		e.Actor, _ = id.ParseAccountID(actor) //nolint:errcheck // best-effort parse from trusted Redis data
	}
	return e, nil
}

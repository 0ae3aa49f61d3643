package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// CreateRecord stores the record as a Hash and indexes its fingerprint.
func (s *Store) CreateRecord(ctx context.Context, r *job.Record) error {
	fp := r.Fingerprint.String()
	key := recordKey(fp)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("timelock/redis: create record check exists: %w", err)
	}
	if exists > 0 {
		return timelock.ErrJobAlreadyExists
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, recordToMap(r))
	pipe.SAdd(ctx, recordFPsKey, fp)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("timelock/redis: create record: %w", err)
	}
	return nil
}

// GetRecord retrieves the open record for a fingerprint.
func (s *Store) GetRecord(ctx context.Context, fp job.Fingerprint) (*job.Record, error) {
	vals, err := s.client.HGetAll(ctx, recordKey(fp.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: get record: %w", err)
	}
	if len(vals) == 0 {
		return nil, timelock.ErrJobNotFound
	}
	return mapToRecord(vals)
}

// UpdateRecord persists changes to an open record.
func (s *Store) UpdateRecord(ctx context.Context, r *job.Record) error {
	key := recordKey(r.Fingerprint.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("timelock/redis: update record check exists: %w", err)
	}
	if exists == 0 {
		return timelock.ErrJobNotFound
	}

	if _, err := s.client.HSet(ctx, key, recordToMap(r)).Result(); err != nil {
		return fmt.Errorf("timelock/redis: update record: %w", err)
	}
	return nil
}

// DeleteRecord clears a record and drops it from the fingerprint index.
func (s *Store) DeleteRecord(ctx context.Context, fp job.Fingerprint) error {
	key := recordKey(fp.String())

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("timelock/redis: delete record check exists: %w", err)
	}
	if exists == 0 {
		return timelock.ErrJobNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, recordFPsKey, fp.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("timelock/redis: delete record: %w", err)
	}
	return nil
}

// ListRecords returns open records ordered by submission time, oldest first.
func (s *Store) ListRecords(ctx context.Context, opts job.ListOpts) ([]*job.Record, error) {
	fps, err := s.client.SMembers(ctx, recordFPsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: list records smembers: %w", err)
	}

	records := make([]*job.Record, 0, len(fps))
	for _, fp := range fps {
		vals, getErr := s.client.HGetAll(ctx, recordKey(fp)).Result()
		if getErr != nil || len(vals) == 0 {
			continue // skip missing
		}
		r, convErr := mapToRecord(vals)
		if convErr != nil {
			continue
		}
		if opts.Kind != "" && r.Kind != opts.Kind {
			continue
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, k int) bool {
		return records[i].SubmittedAt.Before(records[k].SubmittedAt)
	})

	// Apply offset/limit.
	if opts.Offset >= len(records) {
		return nil, nil
	}
	records = records[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}
	return records, nil
}

// CountRecords returns the number of open records matching opts.
func (s *Store) CountRecords(ctx context.Context, opts job.CountOpts) (int64, error) {
	if opts.Kind == "" {
		n, err := s.client.SCard(ctx, recordFPsKey).Result()
		if err != nil {
			return 0, fmt.Errorf("timelock/redis: count records scard: %w", err)
		}
		return n, nil
	}

	fps, err := s.client.SMembers(ctx, recordFPsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("timelock/redis: count records smembers: %w", err)
	}
	var count int64
	for _, fp := range fps {
		kind, getErr := s.client.HGet(ctx, recordKey(fp), "kind").Result()
		if getErr != nil {
			continue
		}
		if job.Kind(kind) == opts.Kind {
			count++
		}
	}
	return count, nil
}

// ── helpers ──

func recordToMap(r *job.Record) map[string]interface{} {
	m := map[string]interface{}{
		"fingerprint":  r.Fingerprint.String(),
		"kind":         string(r.Kind),
		"target":       r.Target.String(),
		"value":        strconv.FormatUint(uint64(r.Value), 10),
		"signature":    r.Signature,
		"payload":      string(r.Payload),
		"reward":       strconv.FormatUint(uint64(r.Reward), 10),
		"timeout":      strconv.FormatInt(int64(r.Timeout), 10),
		"best_bid":     strconv.FormatUint(uint64(r.BestBid), 10),
		"submitted_at": r.SubmittedAt.Format(time.RFC3339Nano),
		"updated_at":   r.UpdatedAt.Format(time.RFC3339Nano),
	}
	if !r.BestBidder.IsNil() {
		m["best_bidder"] = r.BestBidder.String()
	}
	return m
}

func mapToRecord(m map[string]string) (*job.Record, error) {
	fp, err := job.ParseFingerprint(m["fingerprint"])
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: parse record fingerprint: %w", err)
	}
	target, err := id.ParseAccountID(m["target"])
	if err != nil {
		return nil, fmt.Errorf("timelock/redis: parse record target: %w", err)
	}

	value, _ := strconv.ParseUint(m["value"], 10, 64)       //nolint:errcheck // best-effort parse from trusted Redis data
	reward, _ := strconv.ParseUint(m["reward"], 10, 64)     //nolint:errcheck // best-effort parse from trusted Redis data
	bestBid, _ := strconv.ParseUint(m["best_bid"], 10, 64)  //nolint:errcheck // best-effort parse from trusted Redis data
	timeout, _ := strconv.ParseInt(m["timeout"], 10, 64)    //nolint:errcheck // best-effort parse from trusted Redis data
	submittedAt, _ := time.Parse(time.RFC3339Nano, m["submitted_at"]) //nolint:errcheck // best-effort parse from trusted Redis data
	updatedAt, _ := time.Parse(time.RFC3339Nano, m["updated_at"])     //nolint:errcheck // best-effort parse from trusted Redis data

	r := &job.Record{
		Fingerprint: fp,
		Kind:        job.Kind(m["kind"]),
		Target:      target,
		Value:       timelock.Amount(value),
		Signature:   m["signature"],
		Payload:     []byte(m["payload"]),
		Reward:      timelock.Amount(reward),
		Timeout:     time.Duration(timeout),
		BestBid:     timelock.Amount(bestBid),
		SubmittedAt: submittedAt,
		UpdatedAt:   updatedAt,
	}

	if bidder := m["best_bidder"]; bidder != "" {
		r.BestBidder, _ = id.ParseAccountID(bidder) //nolint:errcheck // best-effort parse from trusted Redis data
	}
	return r, nil
}

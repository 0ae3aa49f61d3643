package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/audit"
	"github.com/xraph/timelock/escrow"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ job.Store    = (*Store)(nil)
	_ escrow.Store = (*Store)(nil)
	_ audit.Store  = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu sync.RWMutex

	records map[job.Fingerprint]*job.Record
	held    map[job.Fingerprint]timelock.Amount
	entries []*audit.Entry
	byID    map[string]*audit.Entry
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		records: make(map[job.Fingerprint]*job.Record),
		held:    make(map[job.Fingerprint]timelock.Amount),
		byID:    make(map[string]*audit.Entry),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Job Store
// ──────────────────────────────────────────────────

// CreateRecord persists a new open record.
func (m *Store) CreateRecord(_ context.Context, r *job.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[r.Fingerprint]; exists {
		return timelock.ErrJobAlreadyExists
	}
	cp := *r
	m.records[r.Fingerprint] = &cp
	return nil
}

// GetRecord retrieves the open record for a fingerprint.
func (m *Store) GetRecord(_ context.Context, fp job.Fingerprint) (*job.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[fp]
	if !ok {
		return nil, timelock.ErrJobNotFound
	}
	cp := *r
	return &cp, nil
}

// UpdateRecord persists changes to an open record.
func (m *Store) UpdateRecord(_ context.Context, r *job.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[r.Fingerprint]; !ok {
		return timelock.ErrJobNotFound
	}
	cp := *r
	m.records[r.Fingerprint] = &cp
	return nil
}

// DeleteRecord clears a record.
func (m *Store) DeleteRecord(_ context.Context, fp job.Fingerprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[fp]; !ok {
		return timelock.ErrJobNotFound
	}
	delete(m.records, fp)
	return nil
}

// ListRecords returns open records ordered by submission time, oldest first.
func (m *Store) ListRecords(_ context.Context, opts job.ListOpts) ([]*job.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*job.Record, 0, len(m.records))
	for _, r := range m.records {
		if opts.Kind != "" && r.Kind != opts.Kind {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].SubmittedAt.Before(result[k].SubmittedAt)
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

// CountRecords returns the number of open records matching opts.
func (m *Store) CountRecords(_ context.Context, opts job.CountOpts) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if opts.Kind == "" {
		return int64(len(m.records)), nil
	}
	var n int64
	for _, r := range m.records {
		if r.Kind == opts.Kind {
			n++
		}
	}
	return n, nil
}

// ──────────────────────────────────────────────────
// Escrow Store
// ──────────────────────────────────────────────────

// CreditEscrow adds value to a fingerprint's held balance.
func (m *Store) CreditEscrow(_ context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.held[fp] += amount
	return nil
}

// DebitEscrow removes value from a fingerprint's held balance, failing
// without mutation if the balance does not cover the debit.
func (m *Store) DebitEscrow(_ context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bal := m.held[fp]
	if bal < amount {
		return timelock.ErrInsufficientEscrow
	}
	if bal == amount {
		delete(m.held, fp)
	} else {
		m.held[fp] = bal - amount
	}
	return nil
}

// EscrowHeld returns the value currently held for a fingerprint.
func (m *Store) EscrowHeld(_ context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.held[fp], nil
}

// EscrowTotal returns the aggregate value held across all fingerprints.
func (m *Store) EscrowTotal(_ context.Context) (timelock.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total timelock.Amount
	for _, v := range m.held {
		total += v
	}
	return total, nil
}

// ──────────────────────────────────────────────────
// Audit Store
// ──────────────────────────────────────────────────

// AppendAudit persists a journal entry.
func (m *Store) AppendAudit(_ context.Context, entry *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *entry
	m.entries = append(m.entries, &cp)
	m.byID[entry.ID.String()] = &cp
	return nil
}

// GetAudit retrieves a journal entry by ID.
func (m *Store) GetAudit(_ context.Context, entryID id.AuditID) (*audit.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byID[entryID.String()]
	if !ok {
		return nil, timelock.ErrAuditNotFound
	}
	cp := *e
	return &cp, nil
}

// ListAudit returns journal entries matching opts, oldest first.
func (m *Store) ListAudit(_ context.Context, opts audit.ListOpts) ([]*audit.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*audit.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if !opts.Fingerprint.IsZero() && e.Fingerprint != opts.Fingerprint {
			continue
		}
		if opts.Action != "" && e.Action != opts.Action {
			continue
		}
		cp := *e
		result = append(result, &cp)
	}

	return paginate(result, opts.Offset, opts.Limit), nil
}

// PurgeAudit removes entries created before the given time.
func (m *Store) PurgeAudit(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	var removed int64
	for _, e := range m.entries {
		if e.CreatedAt.Before(before) {
			delete(m.byID, e.ID.String())
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

// CountAudit returns the total number of journal entries.
func (m *Store) CountAudit(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.entries)), nil
}

// paginate applies offset and limit to an already-ordered slice.
func paginate[T any](s []T, offset, limit int) []T {
	if offset >= len(s) {
		return nil
	}
	s = s[offset:]
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s
}

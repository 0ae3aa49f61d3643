package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/timelock/audit"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// fakeJournal collects appended entries in order.
type fakeJournal struct {
	entries []*audit.Entry
}

func (j *fakeJournal) AppendAudit(_ context.Context, entry *audit.Entry) error {
	j.entries = append(j.entries, entry)
	return nil
}

func (j *fakeJournal) GetAudit(_ context.Context, entryID id.AuditID) (*audit.Entry, error) {
	for _, e := range j.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, nil
}

func (j *fakeJournal) ListAudit(_ context.Context, _ audit.ListOpts) ([]*audit.Entry, error) {
	return j.entries, nil
}

func (j *fakeJournal) PurgeAudit(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (j *fakeJournal) CountAudit(_ context.Context) (int64, error) {
	return int64(len(j.entries)), nil
}

func auctionRecord() *job.Record {
	target := id.MustParse("acct_01h2xcejqtf2nbrexx3vqjhp41")
	bidder := id.MustParse("acct_01h2xcejqtf2nbrexx3vqjhp42")
	d := job.Descriptor{Kind: job.KindAuction, Target: target, Value: 100, Timeout: 2 * time.Hour}
	return &job.Record{
		Fingerprint: d.Fingerprint(),
		Kind:        job.KindAuction,
		Target:      target,
		Value:       100,
		Timeout:     2 * time.Hour,
		BestBid:     60,
		BestBidder:  bidder,
	}
}

func TestRecorderJournalsTransitions(t *testing.T) {
	t.Parallel()

	journal := &fakeJournal{}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := audit.NewRecorder(journal, audit.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	r := auctionRecord()

	steps := []struct {
		name string
		fire func() error
		want audit.Action
	}{
		{"delay updated", func() error { return rec.OnDelayUpdated(ctx, time.Hour, 2*time.Hour) }, audit.ActionDelayUpdated},
		{"job submitted", func() error { return rec.OnJobSubmitted(ctx, r) }, audit.ActionJobSubmitted},
		{"bid placed", func() error { return rec.OnBidPlaced(ctx, r, id.Nil, 0) }, audit.ActionBidPlaced},
		{"job executed", func() error { return rec.OnJobExecuted(ctx, r, []byte("out")) }, audit.ActionJobExecuted},
		{"job cancelled", func() error { return rec.OnJobCancelled(ctx, r) }, audit.ActionJobCancelled},
	}

	for _, s := range steps {
		if err := s.fire(); err != nil {
			t.Fatalf("%s: hook failed: %v", s.name, err)
		}
	}

	if len(journal.entries) != len(steps) {
		t.Fatalf("expected %d entries, got %d", len(steps), len(journal.entries))
	}
	for i, s := range steps {
		e := journal.entries[i]
		if e.Action != s.want {
			t.Errorf("entry[%d].Action = %q, want %q", i, e.Action, s.want)
		}
		if e.ID.IsNil() {
			t.Errorf("entry[%d] missing ID", i)
		}
		if !e.CreatedAt.Equal(fixed) {
			t.Errorf("entry[%d].CreatedAt = %v, want %v", i, e.CreatedAt, fixed)
		}
	}
}

func TestRecorderBidEntryCarriesActor(t *testing.T) {
	t.Parallel()

	journal := &fakeJournal{}
	rec := audit.NewRecorder(journal)
	r := auctionRecord()

	prev := id.MustParse("acct_01h2xcejqtf2nbrexx3vqjhp43")
	if err := rec.OnBidPlaced(context.Background(), r, prev, 80); err != nil {
		t.Fatalf("OnBidPlaced failed: %v", err)
	}

	e := journal.entries[0]
	if e.Actor != r.BestBidder {
		t.Errorf("Actor = %s, want %s", e.Actor, r.BestBidder)
	}
	if e.Amount != r.BestBid {
		t.Errorf("Amount = %d, want %d", e.Amount, r.BestBid)
	}
	if e.Fingerprint != r.Fingerprint {
		t.Errorf("Fingerprint mismatch")
	}
}

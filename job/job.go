package job

import (
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
)

// Record is the open state of a fingerprint. A record exists exactly while
// the fingerprint holds escrowed, unconsumed value; execute and cancel
// delete it, after which the fingerprint carries no residual state.
type Record struct {
	Fingerprint Fingerprint  `json:"fingerprint"`
	Kind        Kind         `json:"kind"`
	Target      id.AccountID `json:"target"`

	// Value is the committed value covered by the fingerprint: the call
	// budget for simple jobs, the ceiling reward for auction jobs.
	Value timelock.Amount `json:"value"`

	Signature string `json:"signature,omitempty"`
	Payload   []byte `json:"payload,omitempty"`

	// Reward is the Executor's payment, declared and escrowed at submit
	// time. Simple jobs only.
	Reward timelock.Amount `json:"reward,omitempty"`

	// Timeout bounds the execution window after the delay elapses.
	// Auction jobs only.
	Timeout time.Duration `json:"timeout,omitempty"`

	// BestBid is the lowest standing bid, initialized to the ceiling
	// reward. BestBidder is nil until a bid is accepted. Auction jobs only.
	BestBid    timelock.Amount `json:"best_bid,omitempty"`
	BestBidder id.AccountID    `json:"best_bidder,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Descriptor rebuilds the call descriptor the record was keyed under.
func (r *Record) Descriptor() Descriptor {
	return Descriptor{
		Kind:      r.Kind,
		Target:    r.Target,
		Value:     r.Value,
		Signature: r.Signature,
		Payload:   r.Payload,
		Timeout:   r.Timeout,
	}
}

// HasBidder reports whether a live bidder currently holds the best bid.
func (r *Record) HasBidder() bool {
	return !r.BestBidder.IsNil()
}

// Collateral returns the live bidder's deposit: the gap between the
// ceiling reward and their bid. Zero when no bid has been accepted.
func (r *Record) Collateral() timelock.Amount {
	if !r.HasBidder() {
		return 0
	}
	return r.Value - r.BestBid
}

// Held returns the total value the fingerprint is entitled to: the
// committed value, the declared reward, and any live bidder collateral.
func (r *Record) Held() timelock.Amount {
	return r.Value + r.Reward + r.Collateral()
}

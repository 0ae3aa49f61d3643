package escrow

import (
	"context"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/job"
)

// Store defines the persistence contract for per-fingerprint escrow
// balances. Implementations must keep per-fingerprint balances and the
// aggregate total consistent within each call.
type Store interface {
	// CreditEscrow adds value to a fingerprint's held balance.
	CreditEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error

	// DebitEscrow removes value from a fingerprint's held balance.
	// Returns timelock.ErrInsufficientEscrow if the balance does not
	// cover the debit; the balance is left unchanged in that case.
	DebitEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error

	// EscrowHeld returns the value currently held for a fingerprint.
	// A fingerprint with no history holds zero; that is not an error.
	EscrowHeld(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error)

	// EscrowTotal returns the aggregate value held across all fingerprints.
	EscrowTotal(ctx context.Context) (timelock.Amount, error)
}

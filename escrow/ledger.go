package escrow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
)

// Ledger provides high-level escrow operations over a Store and a Bank.
// It enforces the coverage invariant: value leaves a fingerprint only up
// to what was previously deposited for it.
type Ledger struct {
	store  Store
	bank   timelock.Bank
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(led *Ledger) { led.logger = l }
}

// NewLedger creates a ledger backed by the given store and bank.
func NewLedger(store Store, bank timelock.Bank, opts ...Option) *Ledger {
	led := &Ledger{store: store, bank: bank, logger: slog.Default()}
	for _, o := range opts {
		o(led)
	}
	return led
}

// Deposit collects value from an identity and credits it to a fingerprint.
// A failed collection leaves the fingerprint's balance unchanged.
func (l *Ledger) Deposit(ctx context.Context, fp job.Fingerprint, from id.AccountID, amount timelock.Amount) error {
	if err := l.bank.Collect(ctx, from, amount); err != nil {
		return fmt.Errorf("%w: collect %s from %s: %w", timelock.ErrTransferFailed, amount, from, err)
	}
	if err := l.store.CreditEscrow(ctx, fp, amount); err != nil {
		return fmt.Errorf("escrow: credit %s: %w", fp, err)
	}

	l.logger.Debug("escrow deposit",
		slog.String("fingerprint", fp.String()),
		slog.String("from", from.String()),
		slog.String("amount", amount.String()),
	)
	return nil
}

// Payout debits a fingerprint and transfers the value to an identity.
// The debit happens first: a payout not covered by the fingerprint's
// balance fails with ErrInsufficientEscrow before any value moves.
func (l *Ledger) Payout(ctx context.Context, fp job.Fingerprint, to id.AccountID, amount timelock.Amount) error {
	if amount == 0 {
		return nil
	}
	if err := l.store.DebitEscrow(ctx, fp, amount); err != nil {
		return fmt.Errorf("escrow: debit %s: %w", fp, err)
	}
	if err := l.bank.Transfer(ctx, to, amount); err != nil {
		return fmt.Errorf("%w: transfer %s to %s: %w", timelock.ErrTransferFailed, amount, to, err)
	}

	l.logger.Debug("escrow payout",
		slog.String("fingerprint", fp.String()),
		slog.String("to", to.String()),
		slog.String("amount", amount.String()),
	)
	return nil
}

// Consume debits a fingerprint without a compensating transfer: the value
// leaves the system attached to a dispatched call.
func (l *Ledger) Consume(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	if amount == 0 {
		return nil
	}
	if err := l.store.DebitEscrow(ctx, fp, amount); err != nil {
		return fmt.Errorf("escrow: consume %s: %w", fp, err)
	}

	l.logger.Debug("escrow consumed by dispatch",
		slog.String("fingerprint", fp.String()),
		slog.String("amount", amount.String()),
	)
	return nil
}

// Held returns the value currently held for a fingerprint.
func (l *Ledger) Held(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	return l.store.EscrowHeld(ctx, fp)
}

// Total returns the aggregate value held across all fingerprints.
func (l *Ledger) Total(ctx context.Context) (timelock.Amount, error) {
	return l.store.EscrowTotal(ctx)
}

// Store returns the underlying escrow store.
func (l *Ledger) Store() Store { return l.store }

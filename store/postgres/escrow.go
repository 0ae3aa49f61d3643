package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/job"
)

// CreditEscrow adds value to a fingerprint's held balance, creating the
// row on first deposit.
func (s *Store) CreditEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO timelock_escrow (fingerprint, held)
		VALUES ($1, $2)
		ON CONFLICT (fingerprint)
		DO UPDATE SET held = timelock_escrow.held + EXCLUDED.held`,
		fp.String(), int64(amount),
	)
	if err != nil {
		return fmt.Errorf("timelock/postgres: credit escrow: %w", err)
	}
	return nil
}

// DebitEscrow removes value from a fingerprint's held balance. The balance
// predicate lives in the UPDATE itself, so an uncovered debit touches
// nothing.
func (s *Store) DebitEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE timelock_escrow
		SET held = held - $2
		WHERE fingerprint = $1 AND held >= $2`,
		fp.String(), int64(amount),
	)
	if err != nil {
		return fmt.Errorf("timelock/postgres: debit escrow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timelock.ErrInsufficientEscrow
	}

	// Drop emptied rows so EscrowTotal sums only live balances.
	_, err = s.pool.Exec(ctx,
		`DELETE FROM timelock_escrow WHERE fingerprint = $1 AND held = 0`, fp.String())
	if err != nil {
		return fmt.Errorf("timelock/postgres: prune escrow: %w", err)
	}
	return nil
}

// EscrowHeld returns the value currently held for a fingerprint.
func (s *Store) EscrowHeld(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	var held int64
	err := s.pool.QueryRow(ctx,
		`SELECT held FROM timelock_escrow WHERE fingerprint = $1`, fp.String(),
	).Scan(&held)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("timelock/postgres: escrow held: %w", err)
	}
	return timelock.Amount(held), nil
}

// EscrowTotal returns the aggregate value held across all fingerprints.
func (s *Store) EscrowTotal(ctx context.Context) (timelock.Amount, error) {
	var total int64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(held), 0) FROM timelock_escrow`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("timelock/postgres: escrow total: %w", err)
	}
	return timelock.Amount(total), nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/job"
)

// CreditEscrow adds value to a fingerprint's held balance and bumps the
// running total in the same transaction.
func (s *Store) CreditEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, escrowKey, fp.String(), int64(amount))
	pipe.IncrBy(ctx, escrowTotalKey, int64(amount))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("timelock/redis: credit escrow: %w", err)
	}
	return nil
}

// DebitEscrow removes value from a fingerprint's held balance, failing
// without mutation if the balance does not cover the debit.
func (s *Store) DebitEscrow(ctx context.Context, fp job.Fingerprint, amount timelock.Amount) error {
	bal, err := s.escrowBalance(ctx, fp)
	if err != nil {
		return err
	}
	if bal < amount {
		return timelock.ErrInsufficientEscrow
	}

	pipe := s.client.TxPipeline()
	if bal == amount {
		pipe.HDel(ctx, escrowKey, fp.String())
	} else {
		pipe.HIncrBy(ctx, escrowKey, fp.String(), -int64(amount))
	}
	pipe.DecrBy(ctx, escrowTotalKey, int64(amount))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("timelock/redis: debit escrow: %w", err)
	}
	return nil
}

// EscrowHeld returns the value currently held for a fingerprint.
func (s *Store) EscrowHeld(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	return s.escrowBalance(ctx, fp)
}

// EscrowTotal returns the aggregate value held across all fingerprints.
func (s *Store) EscrowTotal(ctx context.Context) (timelock.Amount, error) {
	v, err := s.client.Get(ctx, escrowTotalKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("timelock/redis: escrow total: %w", err)
	}
	total, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timelock/redis: parse escrow total %q: %w", v, err)
	}
	return timelock.Amount(total), nil
}

func (s *Store) escrowBalance(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	v, err := s.client.HGet(ctx, escrowKey, fp.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("timelock/redis: escrow balance: %w", err)
	}
	bal, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timelock/redis: parse escrow balance %q: %w", v, err)
	}
	return timelock.Amount(bal), nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
	"github.com/xraph/timelock/middleware"
)

// SubmitJobAuction opens a reverse-auction job. The ceiling reward is
// escrowed from the submitter and doubles as the opening best bid; any
// account other than the submitter may then underbid it. The timeout
// bounds the post-delay execution window.
func (e *Engine) SubmitJobAuction(ctx context.Context, caller, target id.AccountID, ceiling timelock.Amount, signature string, payload []byte, timeout time.Duration) (job.Fingerprint, error) {
	d := job.Descriptor{
		Kind:      job.KindAuction,
		Target:    target,
		Value:     ceiling,
		Signature: signature,
		Payload:   payload,
		Timeout:   timeout,
	}
	fp := d.Fingerprint()

	op := middleware.Op{Name: OpSubmitJobAuction, Caller: caller, Fingerprint: fp}
	err := e.run(ctx, op, func(ctx context.Context) error {
		if caller != e.cfg.Submitter {
			return fmt.Errorf("%w: only the submitter may submit jobs", timelock.ErrUnauthorized)
		}
		if ceiling == 0 {
			return fmt.Errorf("%w: ceiling reward must be positive", timelock.ErrInvalidParameter)
		}
		if target.IsNil() {
			return fmt.Errorf("%w: job target is required", timelock.ErrInvalidParameter)
		}
		if timeout <= timelock.MinDelay {
			return fmt.Errorf("%w: auction timeout %s must exceed %s", timelock.ErrInvalidParameter, timeout, timelock.MinDelay)
		}
		if _, err := e.jobs.GetRecord(ctx, fp); err == nil {
			return fmt.Errorf("%w: %s", timelock.ErrJobAlreadyExists, fp)
		} else if !errors.Is(err, timelock.ErrJobNotFound) {
			return err
		}

		if err := e.ledger.Deposit(ctx, fp, caller, ceiling); err != nil {
			return err
		}

		now := e.now()
		rec := &job.Record{
			Fingerprint: fp,
			Kind:        job.KindAuction,
			Target:      target,
			Value:       ceiling,
			Signature:   signature,
			Payload:     payload,
			Timeout:     timeout,
			BestBid:     ceiling,
			SubmittedAt: now,
			UpdatedAt:   now,
		}
		if err := e.jobs.CreateRecord(ctx, rec); err != nil {
			return err
		}

		e.logger.Info("auction submitted",
			"fingerprint", fp.String(),
			"target", target.String(),
			"ceiling", ceiling.String(),
			"timeout", timeout,
		)
		e.exts.EmitJobSubmitted(ctx, rec)
		return nil
	})
	return fp, err
}

// PlaceJobBid underbids the standing best bid on an open auction while
// bidding is still open (before the delay elapses). The bidder attaches
// collateral equal to the exact gap between the ceiling and their bid;
// the previous bidder, if any, is refunded their collateral in full.
func (e *Engine) PlaceJobBid(ctx context.Context, caller, target id.AccountID, ceiling, bid timelock.Amount, signature string, payload []byte, timeout time.Duration, collateral timelock.Amount) error {
	d := job.Descriptor{
		Kind:      job.KindAuction,
		Target:    target,
		Value:     ceiling,
		Signature: signature,
		Payload:   payload,
		Timeout:   timeout,
	}
	fp := d.Fingerprint()

	op := middleware.Op{Name: OpPlaceBid, Caller: caller, Fingerprint: fp}
	return e.run(ctx, op, func(ctx context.Context) error {
		if caller.IsNil() {
			return fmt.Errorf("%w: bidder identity required", timelock.ErrUnauthorized)
		}
		if caller == e.cfg.Submitter {
			return fmt.Errorf("%w: the submitter may not bid on its own auction", timelock.ErrUnauthorized)
		}
		rec, err := e.jobs.GetRecord(ctx, fp)
		if err != nil {
			return err
		}
		if !e.now().Before(rec.SubmittedAt.Add(e.delay)) {
			return fmt.Errorf("%w: bidding on %s closed at %s",
				timelock.ErrWindowViolation, fp, rec.SubmittedAt.Add(e.delay).Format(time.RFC3339))
		}
		if bid >= rec.BestBid {
			return fmt.Errorf("%w: bid %s does not improve on %s", timelock.ErrBidRejected, bid, rec.BestBid)
		}
		if collateral != rec.Value-bid {
			return fmt.Errorf("%w: collateral %s, want exactly %s", timelock.ErrInvalidParameter, collateral, rec.Value-bid)
		}

		// Collect the new collateral before releasing the old: a failed
		// collection leaves the standing bid untouched.
		if err := e.ledger.Deposit(ctx, fp, caller, collateral); err != nil {
			return err
		}

		prevBidder, prevBid := rec.BestBidder, timelock.Amount(0)
		if rec.HasBidder() {
			prevBid = rec.BestBid
			if err := e.ledger.Payout(ctx, fp, prevBidder, rec.Collateral()); err != nil {
				return err
			}
		}

		rec.BestBid = bid
		rec.BestBidder = caller
		rec.UpdatedAt = e.now()
		if err := e.jobs.UpdateRecord(ctx, rec); err != nil {
			return err
		}

		e.logger.Info("bid placed",
			"fingerprint", fp.String(),
			"bidder", caller.String(),
			"bid", bid.String(),
		)
		e.exts.EmitBidPlaced(ctx, rec, prevBidder, prevBid)
		return nil
	})
}

// ExecuteJobBid executes an auction during its execution window. Only the
// winning bidder may execute; the call is dispatched with no value
// attached. On success the bidder receives the full ceiling (their
// collateral back plus their bid) and the submitter is refunded the gap
// between ceiling and winning bid. Dispatch failure restores the record.
func (e *Engine) ExecuteJobBid(ctx context.Context, caller, target id.AccountID, ceiling timelock.Amount, signature string, payload []byte, timeout time.Duration) ([]byte, error) {
	d := job.Descriptor{
		Kind:      job.KindAuction,
		Target:    target,
		Value:     ceiling,
		Signature: signature,
		Payload:   payload,
		Timeout:   timeout,
	}
	fp := d.Fingerprint()

	var output []byte
	op := middleware.Op{Name: OpExecuteBid, Caller: caller, Fingerprint: fp}
	err := e.run(ctx, op, func(ctx context.Context) error {
		if caller == e.cfg.Submitter {
			return fmt.Errorf("%w: the submitter may not execute its own auction", timelock.ErrUnauthorized)
		}
		rec, err := e.jobs.GetRecord(ctx, fp)
		if err != nil {
			return err
		}
		// An unbid auction has no winner: BestBidder is the nil identity,
		// which must never match a caller.
		if !rec.HasBidder() || caller != rec.BestBidder {
			return fmt.Errorf("%w: only the winning bidder may execute", timelock.ErrUnauthorized)
		}

		now := e.now()
		opens := rec.SubmittedAt.Add(e.delay)
		closes := opens.Add(rec.Timeout)
		if now.Before(opens) {
			return fmt.Errorf("%w: auction %s not executable before %s",
				timelock.ErrWindowViolation, fp, opens.Format(time.RFC3339))
		}
		if !now.Before(closes) {
			return fmt.Errorf("%w: execution window for %s closed at %s",
				timelock.ErrWindowViolation, fp, closes.Format(time.RFC3339))
		}

		if err := e.jobs.DeleteRecord(ctx, fp); err != nil {
			return err
		}

		out, err := e.dispatcher.Dispatch(ctx, target, 0, job.CallData(signature, payload))
		if err != nil {
			if rerr := e.jobs.CreateRecord(ctx, rec); rerr != nil {
				return fmt.Errorf("restoring auction %s after dispatch failure: %w", fp, rerr)
			}
			e.logger.Warn("dispatch failed, auction restored", "fingerprint", fp.String(), "error", err)
			return fmt.Errorf("%w: %w", timelock.ErrDispatchFailed, err)
		}

		// Held here is ceiling plus collateral. The winner takes the full
		// ceiling; the submitter recovers the auction savings.
		if err := e.ledger.Payout(ctx, fp, caller, rec.Value); err != nil {
			return err
		}
		if err := e.ledger.Payout(ctx, fp, e.cfg.Submitter, rec.Value-rec.BestBid); err != nil {
			return err
		}

		e.logger.Info("auction executed",
			"fingerprint", fp.String(),
			"bidder", caller.String(),
			"bid", rec.BestBid.String(),
		)
		e.exts.EmitJobExecuted(ctx, rec, out)
		output = out
		return nil
	})
	return output, err
}

// CancelJobAuction cancels an auction whose execution window has lapsed
// without execution. The submitter recovers the escrowed ceiling, and any
// standing bidder recovers their collateral.
func (e *Engine) CancelJobAuction(ctx context.Context, caller, target id.AccountID, ceiling timelock.Amount, signature string, payload []byte, timeout time.Duration) error {
	d := job.Descriptor{
		Kind:      job.KindAuction,
		Target:    target,
		Value:     ceiling,
		Signature: signature,
		Payload:   payload,
		Timeout:   timeout,
	}
	fp := d.Fingerprint()

	op := middleware.Op{Name: OpCancelAuction, Caller: caller, Fingerprint: fp}
	return e.run(ctx, op, func(ctx context.Context) error {
		if caller != e.cfg.Submitter {
			return fmt.Errorf("%w: only the submitter may cancel", timelock.ErrUnauthorized)
		}
		rec, err := e.jobs.GetRecord(ctx, fp)
		if err != nil {
			return err
		}

		lapsed := rec.SubmittedAt.Add(e.delay).Add(rec.Timeout)
		if e.now().Before(lapsed) {
			return fmt.Errorf("%w: auction %s not cancellable before %s",
				timelock.ErrWindowViolation, fp, lapsed.Format(time.RFC3339))
		}

		if err := e.jobs.DeleteRecord(ctx, fp); err != nil {
			return err
		}

		if rec.HasBidder() {
			if err := e.ledger.Payout(ctx, fp, rec.BestBidder, rec.Collateral()); err != nil {
				return err
			}
		}
		if err := e.ledger.Payout(ctx, fp, e.cfg.Submitter, rec.Value); err != nil {
			return err
		}

		e.logger.Info("auction cancelled", "fingerprint", fp.String(), "ceiling", rec.Value.String())
		e.exts.EmitJobCancelled(ctx, rec)
		return nil
	})
}

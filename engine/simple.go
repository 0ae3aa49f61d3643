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

// SubmitJob opens a simple job: the call descriptor is committed under its
// fingerprint and the call value plus the declared executor reward are
// escrowed from the submitter. The returned fingerprint identifies the job
// for queries; execution recomputes it from the same arguments.
func (e *Engine) SubmitJob(ctx context.Context, caller, target id.AccountID, value, reward timelock.Amount, signature string, payload []byte) (job.Fingerprint, error) {
	d := job.Descriptor{
		Kind:      job.KindSimple,
		Target:    target,
		Value:     value,
		Signature: signature,
		Payload:   payload,
	}
	fp := d.Fingerprint()

	op := middleware.Op{Name: OpSubmitJob, Caller: caller, Fingerprint: fp}
	err := e.run(ctx, op, func(ctx context.Context) error {
		if caller != e.cfg.Submitter {
			return fmt.Errorf("%w: only the submitter may submit jobs", timelock.ErrUnauthorized)
		}
		if value == 0 {
			return fmt.Errorf("%w: job value must be positive", timelock.ErrInvalidParameter)
		}
		if value+reward < value {
			return fmt.Errorf("%w: value plus reward overflows", timelock.ErrInvalidParameter)
		}
		if target.IsNil() {
			return fmt.Errorf("%w: job target is required", timelock.ErrInvalidParameter)
		}
		if _, err := e.jobs.GetRecord(ctx, fp); err == nil {
			return fmt.Errorf("%w: %s", timelock.ErrJobAlreadyExists, fp)
		} else if !errors.Is(err, timelock.ErrJobNotFound) {
			return err
		}

		if err := e.ledger.Deposit(ctx, fp, caller, value+reward); err != nil {
			return err
		}

		now := e.now()
		rec := &job.Record{
			Fingerprint: fp,
			Kind:        job.KindSimple,
			Target:      target,
			Value:       value,
			Signature:   signature,
			Payload:     payload,
			Reward:      reward,
			SubmittedAt: now,
			UpdatedAt:   now,
		}
		if err := e.jobs.CreateRecord(ctx, rec); err != nil {
			return err
		}

		e.logger.Info("job submitted",
			"fingerprint", fp.String(),
			"target", target.String(),
			"value", value.String(),
			"reward", reward.String(),
		)
		e.exts.EmitJobSubmitted(ctx, rec)
		return nil
	})
	return fp, err
}

// ExecuteJob executes an open simple job once its delay has elapsed. The
// record is cleared before the call is dispatched with the committed value
// attached; on dispatch failure the record is restored so the job can be
// retried. On success the escrowed reward is paid to the executor.
func (e *Engine) ExecuteJob(ctx context.Context, caller, target id.AccountID, value timelock.Amount, signature string, payload []byte) ([]byte, error) {
	d := job.Descriptor{
		Kind:      job.KindSimple,
		Target:    target,
		Value:     value,
		Signature: signature,
		Payload:   payload,
	}
	fp := d.Fingerprint()

	var output []byte
	op := middleware.Op{Name: OpExecuteJob, Caller: caller, Fingerprint: fp}
	err := e.run(ctx, op, func(ctx context.Context) error {
		if caller != e.cfg.Executor {
			return fmt.Errorf("%w: only the executor may execute jobs", timelock.ErrUnauthorized)
		}
		rec, err := e.jobs.GetRecord(ctx, fp)
		if err != nil {
			return err
		}
		if e.now().Before(rec.SubmittedAt.Add(e.delay)) {
			return fmt.Errorf("%w: job %s not executable before %s",
				timelock.ErrWindowViolation, fp, rec.SubmittedAt.Add(e.delay).Format(time.RFC3339))
		}

		// Clear before dispatching so a reentrant call observes no open job.
		if err := e.jobs.DeleteRecord(ctx, fp); err != nil {
			return err
		}

		out, err := e.dispatcher.Dispatch(ctx, target, value, job.CallData(signature, payload))
		if err != nil {
			// Restore the record: the job stays open and retryable.
			if rerr := e.jobs.CreateRecord(ctx, rec); rerr != nil {
				return fmt.Errorf("restoring job %s after dispatch failure: %w", fp, rerr)
			}
			e.logger.Warn("dispatch failed, job restored", "fingerprint", fp.String(), "error", err)
			return fmt.Errorf("%w: %w", timelock.ErrDispatchFailed, err)
		}

		if err := e.ledger.Consume(ctx, fp, rec.Value); err != nil {
			return err
		}
		if err := e.ledger.Payout(ctx, fp, e.cfg.Executor, rec.Reward); err != nil {
			return err
		}

		e.logger.Info("job executed",
			"fingerprint", fp.String(),
			"value", rec.Value.String(),
			"reward", rec.Reward.String(),
		)
		e.exts.EmitJobExecuted(ctx, rec, out)
		output = out
		return nil
	})
	return output, err
}

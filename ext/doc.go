// Package ext defines the extension system for Timelock.
//
// Extensions are notified of lifecycle events and can react to them —
// recording metrics, emitting webhooks, writing audit journals, etc.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnJobExecuted(ctx context.Context, r *job.Record, output []byte) error {
//	    log.Printf("job %s executed", r.Fingerprint)
//	    return nil
//	}
//
// # Lifecycle Hooks
//
//   - [DelayUpdated] — the execution delay was changed by the Submitter
//   - [JobSubmitted] — a job (simple or auction) was opened and escrowed
//   - [BidPlaced] — a strictly improving bid was accepted
//   - [JobExecuted] — a job was executed and settled
//   - [JobCancelled] — a lapsed auction was cancelled and refunded
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface. Hooks fire exactly once per
// successful state transition, after the transition has committed.
package ext

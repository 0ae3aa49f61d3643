// Package audit keeps an append-only journal of timelock state
// transitions: delay changes, submissions, accepted bids, executions, and
// cancellations.
//
// The [Recorder] is an extension: register it on an engine and every
// successful transition lands in the journal with the acting identity, the
// fingerprint, and the value that moved. The journal shares its backend
// with the other subsystems through the store interfaces.
package audit

// Package engine implements the job lifecycle coordinator.
//
// An Engine serializes every mutating operation behind a single mutex and
// drives the escrow ledger, the backing store, and the extension registry
// in lockstep: a job record is cleared before its call is dispatched, and
// funds only move through the ledger against the job's fingerprint. The
// engine itself is transport-agnostic; callers are identified by account
// ID and authorization is checked per operation.
package engine

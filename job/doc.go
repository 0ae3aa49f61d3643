// Package job defines the job descriptor, fingerprinting, the tagged job
// record, and the registry store interface.
//
// # Fingerprint
//
// A [Fingerprint] is a deterministic digest of the full call descriptor:
// (target, committed value, signature, payload) for simple jobs, plus the
// timeout for auction jobs. It is the registry's primary key. Two
// submissions with identical descriptors are indistinguishable and share
// one record — an identity rule, not a cache.
//
// # Record
//
// A [Record] is the open state of a fingerprint. It is a tagged variant:
//
//	KindSimple   — direct Submitter→Executor authorization
//	KindAuction  — reverse auction; lowest bidder wins execution rights
//
// A record exists exactly while the fingerprint holds escrowed, unconsumed
// value. Execute and cancel destroy it; a later resubmission with the same
// descriptor behaves as a brand-new job.
//
// # Call data
//
// [CallData] builds the payload handed to the call dispatcher: the raw
// payload verbatim when the signature is empty, otherwise a 4-byte selector
// derived from the signature prefixed to the payload.
package job

// Package timelock provides escrowed, delayed execution of pre-declared
// calls. A Submitter publishes the full descriptor of a call it wants
// performed on its behalf and escrows the funds to pay for it; after a
// mandatory delay a designated Executor (or, on the auction path, the
// winner of a reverse auction) performs the call and collects the reward.
//
// Timelock is designed as a library, not a service. Import it, configure a
// store and the two external collaborators (a call Dispatcher and a Bank),
// and drive the lifecycle through an Engine:
//
//	eng, err := engine.New(cfg,
//	    engine.WithStore(memory.New()),
//	    engine.WithDispatcher(d),
//	    engine.WithBank(b),
//	)
//
// # Architecture
//
// Timelock follows a composable store pattern: each subsystem (job registry,
// escrow ledger, audit journal) defines its own store interface and a single
// backend implements all of them. Backends: Postgres, Redis, and Memory.
//
// Jobs are identified by a fingerprint — a deterministic digest of the full
// call descriptor. Two submissions with identical descriptors are the same
// job. Account identities use TypeID — type-prefixed, K-sortable,
// UUIDv7-based identifiers.
package timelock

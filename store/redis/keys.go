package redis

// Redis key naming conventions for timelock data.
// All keys are prefixed with "timelock:" to avoid collisions.

const keyPrefix = "timelock:"

// ── Record keys ──

// recordKey returns the key for a job record: timelock:record:{fingerprint}
func recordKey(fp string) string { return keyPrefix + "record:" + fp }

// recordFPsKey is the Set tracking open fingerprints for enumeration.
const recordFPsKey = keyPrefix + "record_fps"

// ── Escrow keys ──

// escrowKey is the Hash mapping fingerprint → held balance.
const escrowKey = keyPrefix + "escrow"

// escrowTotalKey is the running aggregate of all held balances, kept in
// lockstep with escrowKey inside the same transaction.
const escrowTotalKey = keyPrefix + "escrow_total"

// ── Audit keys ──

// auditKey returns the key for a journal entry: timelock:audit:{id}
func auditKey(id string) string { return keyPrefix + "audit:" + id }

// auditLogKey is the List of entry IDs in append order.
const auditLogKey = keyPrefix + "audit_log"

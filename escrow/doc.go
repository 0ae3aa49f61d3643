// Package escrow tracks the value the system holds on behalf of open jobs
// and live bids, keyed by job fingerprint.
//
// The [Ledger] pairs an [escrow.Store] with a [timelock.Bank]: deposits are
// collected from an identity and credited to a fingerprint; payouts debit
// the fingerprint first and only then move value, so no transfer can ever
// exceed what that specific fingerprint is entitled to. One job's funds are
// never used to cover another's shortfall.
package escrow

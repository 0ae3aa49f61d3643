package timelock

import "errors"

var (
	// Wiring errors.
	ErrNoStore      = errors.New("timelock: no store configured")
	ErrNoDispatcher = errors.New("timelock: no call dispatcher configured")
	ErrNoBank       = errors.New("timelock: no bank configured")

	// Authorization errors.
	ErrUnauthorized = errors.New("timelock: caller not authorized")

	// Parameter errors.
	ErrInvalidParameter = errors.New("timelock: invalid parameter")

	// Registry errors.
	ErrJobNotFound      = errors.New("timelock: job not found")
	ErrJobAlreadyExists = errors.New("timelock: job already open")
	ErrAuditNotFound    = errors.New("timelock: audit entry not found")

	// Window errors.
	ErrWindowViolation = errors.New("timelock: outside permitted time window")

	// Auction errors.
	ErrBidRejected = errors.New("timelock: bid not better than current best")

	// Settlement errors.
	ErrDispatchFailed     = errors.New("timelock: call dispatch failed")
	ErrTransferFailed     = errors.New("timelock: value transfer failed")
	ErrInsufficientEscrow = errors.New("timelock: transfer exceeds escrowed value")

	// Throttling errors.
	ErrRateLimited = errors.New("timelock: operation rate limited")
)

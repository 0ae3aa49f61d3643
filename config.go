package timelock

import (
	"fmt"
	"time"

	"github.com/xraph/timelock/id"
)

// Delay bounds. Every delay write — initial or update — is checked against
// these, never only at construction.
const (
	// MinDelay is the shortest permitted execution delay.
	MinDelay = 1 * time.Hour
	// MaxDelay is the longest permitted execution delay.
	MaxDelay = 48 * time.Hour
)

// Config holds the construction parameters for an Engine: the two fixed
// privileged identities and the initial execution delay.
type Config struct {
	// Submitter is the identity allowed to open jobs, update the delay,
	// and cancel lapsed auctions.
	Submitter id.AccountID

	// Executor is the identity allowed to execute simple jobs.
	Executor id.AccountID

	// InitialDelay is the starting execution delay. Must be within
	// [MinDelay, MaxDelay].
	InitialDelay time.Duration
}

// Validate checks the construction parameters. A Config that fails
// validation aborts Engine creation entirely.
func (c Config) Validate() error {
	if c.Submitter.IsNil() {
		return fmt.Errorf("%w: submitter identity required", ErrInvalidParameter)
	}
	if c.Executor.IsNil() {
		return fmt.Errorf("%w: executor identity required", ErrInvalidParameter)
	}
	if c.Submitter == c.Executor {
		return fmt.Errorf("%w: submitter and executor must differ", ErrInvalidParameter)
	}
	return ValidateDelay(c.InitialDelay)
}

// ValidateDelay checks a delay value against [MinDelay, MaxDelay].
func ValidateDelay(d time.Duration) error {
	if d < MinDelay || d > MaxDelay {
		return fmt.Errorf("%w: delay %s outside [%s, %s]", ErrInvalidParameter, d, MinDelay, MaxDelay)
	}
	return nil
}

package timelock

import (
	"context"

	"github.com/xraph/timelock/id"
)

// Dispatcher carries out an arbitrary call against a target identity with
// an attached value and an opaque, already-encoded payload. It is an
// external collaborator: the engine never inspects how the call is
// performed, only whether it succeeded and what bytes it returned.
//
// Any non-nil error is treated as a reverted execution and surfaced as
// ErrDispatchFailed without inspecting the cause.
type Dispatcher interface {
	Dispatch(ctx context.Context, target id.AccountID, value Amount, calldata []byte) ([]byte, error)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, target id.AccountID, value Amount, calldata []byte) ([]byte, error)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, target id.AccountID, value Amount, calldata []byte) ([]byte, error) {
	return f(ctx, target, value, calldata)
}

// Bank moves value between the escrow pool and account identities. It is
// an external collaborator; the escrow ledger tracks what each fingerprint
// is entitled to and the Bank performs the actual movement.
type Bank interface {
	// Collect pulls value from an identity into the escrow pool.
	Collect(ctx context.Context, from id.AccountID, amount Amount) error

	// Transfer pays value out of the escrow pool to an identity.
	Transfer(ctx context.Context, to id.AccountID, amount Amount) error
}

// Package chain describes the ledger runtime the escrow runs inside: who is
// calling, at what height, with how much attached, and how value moves.
package chain

import (
	"context"

	"github.com/xraph/escrow/types"
)

// Env is the contract the escrow requires from its host ledger.
type Env interface {
	// Caller returns the identity that signed the current call.
	Caller(ctx context.Context) types.Account
	// Height returns the current block height.
	Height(ctx context.Context) types.Height
	// Attached returns the amount transferred along with the current call.
	Attached(ctx context.Context) types.Balance
	// Balance returns the amount currently held by the escrow account.
	Balance(ctx context.Context) (types.Balance, error)
	// Transfer moves amount from the escrow account to to. It either moves
	// the full amount or fails without effect.
	Transfer(ctx context.Context, to types.Account, amount types.Balance) error
}

// Call carries the per-invocation values a host attaches to a context.
type Call struct {
	Caller types.Account
	Amount types.Balance
}

type callKey struct{}

// WithCall returns a context carrying c.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom extracts the Call attached to ctx.
func CallFrom(ctx context.Context) (Call, bool) {
	c, ok := ctx.Value(callKey{}).(Call)
	return c, ok
}

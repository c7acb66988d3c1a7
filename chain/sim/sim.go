// Package sim is an in-process ledger runtime for tests, the CLI and local
// development. It tracks a block height, the escrow's held balance and the
// payouts made by transfers.
package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/xraph/escrow/chain"
	"github.com/xraph/escrow/types"
)

// ErrTransferRejected is returned by Transfer while rejection is switched on
// or when the held balance cannot cover the amount.
var ErrTransferRejected = errors.New("sim: transfer rejected")

var _ chain.Env = (*Ledger)(nil)

// Ledger is a simulated host ledger. The zero value is ready to use.
type Ledger struct {
	mu      sync.Mutex
	height  types.Height
	held    types.Balance
	payouts map[types.Account]types.Balance
	reject  bool
}

// New creates a simulated ledger starting at height.
func New(height types.Height) *Ledger {
	return &Ledger{height: height}
}

// Caller implements chain.Env.
func (l *Ledger) Caller(ctx context.Context) types.Account {
	c, _ := chain.CallFrom(ctx)
	return c.Caller
}

// Attached implements chain.Env.
func (l *Ledger) Attached(ctx context.Context) types.Balance {
	c, _ := chain.CallFrom(ctx)
	return c.Amount
}

// Height implements chain.Env.
func (l *Ledger) Height(context.Context) types.Height {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// Balance implements chain.Env.
func (l *Ledger) Balance(context.Context) (types.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held, nil
}

// Transfer implements chain.Env.
func (l *Ledger) Transfer(_ context.Context, to types.Account, amount types.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.reject || amount > l.held {
		return ErrTransferRejected
	}
	if l.payouts == nil {
		l.payouts = make(map[types.Account]types.Balance)
	}
	l.held -= amount
	l.payouts[to] = l.payouts[to].Add(amount)
	return nil
}

// SetHeight moves the chain to h.
func (l *Ledger) SetHeight(h types.Height) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = h
}

// Advance moves the chain forward by n blocks.
func (l *Ledger) Advance(n types.Height) types.Height {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = l.height.Add(n)
	return l.height
}

// RejectTransfers makes every subsequent Transfer fail while on is true.
func (l *Ledger) RejectTransfers(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reject = on
}

// Payout returns the total amount transferred to account.
func (l *Ledger) Payout(account types.Account) types.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payouts[account]
}

// Invoke runs fn as a call signed by caller with amount attached. The amount
// is credited to the held balance before fn runs and debited again if fn
// fails, so a rejected call leaves the ledger unchanged. Only what was
// actually credited is debited when the credit saturated.
func (l *Ledger) Invoke(ctx context.Context, caller types.Account, amount types.Balance, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	before := l.held
	l.held = l.held.Add(amount)
	credited := l.held - before
	l.mu.Unlock()

	err := fn(chain.WithCall(ctx, chain.Call{Caller: caller, Amount: amount}))
	if err != nil {
		l.mu.Lock()
		l.held = l.held.Sub(credited)
		l.mu.Unlock()
	}
	return err
}

// As returns a context signed by caller with nothing attached, for
// non-payable calls.
func As(ctx context.Context, caller types.Account) context.Context {
	return chain.WithCall(ctx, chain.Call{Caller: caller})
}

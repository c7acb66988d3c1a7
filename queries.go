package escrow

import (
	"context"
	"time"

	"github.com/xraph/escrow/analytics"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/subscriber"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Params returns the creator configuration.
func (e *Escrow) Params(_ context.Context) (params.Params, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.constructed(); err != nil {
		return params.Params{}, err
	}
	return e.state.params, nil
}

// SubscriptionInfo returns the access status of account at the current
// height.
func (e *Escrow) SubscriptionInfo(ctx context.Context, account types.Account) subscriber.Info {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := e.env.Height(ctx)
	rec, _ := e.state.book.Get(account)
	return subscriber.Info{
		Active:  rec.ActiveAt(now),
		Expiry:  rec.ExpiryHeight,
		Now:     now,
		HasPass: rec.HasPass,
	}
}

// IsActive reports whether account's expiry is above the current height.
func (e *Escrow) IsActive(ctx context.Context, account types.Account) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, _ := e.state.book.Get(account)
	return rec.ActiveAt(e.env.Height(ctx))
}

// Token returns the access-pass token id of account, if it has one.
func (e *Escrow) Token(_ context.Context, account types.Account) (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, _ := e.state.book.Get(account)
	return rec.Token()
}

// SubscriberTier returns the last tier account bought, Bronze if none.
func (e *Escrow) SubscriberTier(_ context.Context, account types.Account) tier.Tier {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, _ := e.state.book.Get(account)
	return rec.Tier
}

// AutoRenewalEnabled returns the renewal flag account last set.
func (e *Escrow) AutoRenewalEnabled(_ context.Context, account types.Account) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, _ := e.state.book.Get(account)
	return rec.AutoRenewal
}

// TierPrice returns the price of t, or zero when t is not a configured slot.
func (e *Escrow) TierPrice(_ context.Context, t tier.Tier) types.Balance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.tiers.PriceOf(t)
}

// AllTierPrices returns the three tier prices.
func (e *Escrow) AllTierPrices(_ context.Context) tier.Prices {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.tiers.Prices()
}

// Analytics returns the lifetime counters and the number of subscribers
// active at the current height.
func (e *Escrow) Analytics(ctx context.Context) analytics.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := e.state.book.ActiveCount(e.env.Height(ctx))
	return e.state.counters.Summarize(active)
}

// Subscriber returns the full record of account and whether one exists.
func (e *Escrow) Subscriber(_ context.Context, account types.Account) (subscriber.Record, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.book.Get(account)
}

// Subscribers returns every account that ever subscribed, in the order they
// first did.
func (e *Escrow) Subscribers(_ context.Context) []subscriber.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.book.Records()
}

// TimeRemaining estimates the wall-clock time left on account's access.
func (e *Escrow) TimeRemaining(ctx context.Context, account types.Account) time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, _ := e.state.book.Get(account)
	return rec.TimeRemaining(e.env.Height(ctx), e.blockTime)
}

// Balance returns the amount currently held for the creator.
func (e *Escrow) Balance(ctx context.Context) (types.Balance, error) {
	return e.env.Balance(ctx)
}

// Height returns the current ledger height.
func (e *Escrow) Height(ctx context.Context) types.Height {
	return e.env.Height(ctx)
}

// History returns committed journal entries.
func (e *Escrow) History(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	e.mu.RLock()
	started := e.started
	e.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	return e.store.List(ctx, opts)
}

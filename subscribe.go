package escrow

import (
	"context"

	"github.com/xraph/escrow/event"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Receipt is the result of an accepted payment.
type Receipt struct {
	Periods   uint32       `json:"periods"`
	NewExpiry types.Height `json:"new_expiry"`
}

// Subscribe buys Bronze access for the caller with the attached amount.
func (e *Escrow) Subscribe(ctx context.Context) (Receipt, error) {
	return e.SubscribeWithTier(ctx, tier.Bronze)
}

// SubscribeWithTier buys access at tier t for the caller with the attached
// amount. Whole periods are granted; any remainder is kept as revenue.
func (e *Escrow) SubscribeWithTier(ctx context.Context, t tier.Tier) (Receipt, error) {
	caller := e.env.Caller(ctx)
	return e.accept(ctx, caller, caller, t, false)
}

// GiftSubscription buys access at tier t for recipient, paid by the caller.
// The recipient is credited exactly as if it had subscribed itself.
func (e *Escrow) GiftSubscription(ctx context.Context, recipient types.Account, t tier.Tier) (Receipt, error) {
	return e.accept(ctx, e.env.Caller(ctx), recipient, t, true)
}

// Quote previews what paying amount at tier t would buy for account at the
// current height. Nothing is committed.
func (e *Escrow) Quote(ctx context.Context, account types.Account, t tier.Tier, amount types.Balance) (Receipt, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.constructed(); err != nil {
		return Receipt{}, err
	}
	return e.state.quote(account, t, amount, e.env.Height(ctx))
}

func (e *Escrow) accept(ctx context.Context, payer, recipient types.Account, t tier.Tier, gift bool) (Receipt, error) {
	amount := e.env.Attached(ctx)

	en, err := e.acceptLocked(ctx, payer, recipient, t, amount, gift)
	if err != nil {
		e.plugins.EmitSubscriptionRejected(ctx, event.Rejected{
			Payer:      payer,
			Subscriber: recipient,
			Tier:       t,
			Amount:     amount,
			Err:        err,
		})
		return Receipt{}, err
	}

	if en.IssuedToken() {
		e.plugins.EmitTokenIssued(ctx, event.TokenIssued{
			Owner:   en.Account,
			TokenID: en.TokenID,
		})
	}
	e.plugins.EmitSubscribed(ctx, event.Subscribed{
		Subscriber: en.Account,
		Periods:    en.Periods,
		NewExpiry:  en.NewExpiry,
		Amount:     en.Amount,
		Tier:       en.Tier,
	})
	if gift {
		e.plugins.EmitGifted(ctx, event.Gifted{
			Payer:     payer,
			Recipient: en.Account,
			Periods:   en.Periods,
			NewExpiry: en.NewExpiry,
			Amount:    en.Amount,
			Tier:      en.Tier,
		})
	}

	return Receipt{Periods: en.Periods, NewExpiry: en.NewExpiry}, nil
}

func (e *Escrow) acceptLocked(ctx context.Context, payer, recipient types.Account, t tier.Tier, amount types.Balance, gift bool) (*journal.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.constructed(); err != nil {
		return nil, err
	}
	if payer.IsZero() || recipient.IsZero() {
		return nil, ErrInvalidAccount
	}

	now := e.env.Height(ctx)
	rc, err := e.state.quote(recipient, t, amount, now)
	if err != nil {
		return nil, err
	}

	en := &journal.Entry{
		Kind:      journal.KindSubscribed,
		Height:    now,
		Caller:    payer,
		Account:   recipient,
		Tier:      t,
		Amount:    amount,
		Periods:   rc.Periods,
		NewExpiry: rc.NewExpiry,
		Gift:      gift,
	}
	if rec, _ := e.state.book.Get(recipient); !rec.HasPass {
		en.TokenID = e.state.tokens + 1
	}

	if err := e.commit(ctx, en); err != nil {
		return nil, err
	}
	return en, nil
}

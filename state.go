package escrow

import (
	"fmt"

	"github.com/xraph/escrow/analytics"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/subscriber"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// state is everything derived from the journal.
type state struct {
	seq         uint64
	constructed bool
	params      params.Params
	tiers       tier.Table
	book        *subscriber.Book
	counters    analytics.Counters
	tokens      uint64
}

func newState() *state {
	return &state{book: subscriber.NewBook()}
}

// apply folds one committed entry into the state. The live path and replay
// share it, so a restarted escrow ends up exactly where it stopped.
func (s *state) apply(en *journal.Entry) error {
	if en.Seq != s.seq+1 {
		return fmt.Errorf("%w: expected seq %d, got %d", ErrJournalCorrupt, s.seq+1, en.Seq)
	}

	switch en.Kind {
	case journal.KindConstructed:
		if s.constructed {
			return corrupt(en, "second construction")
		}
		if en.Params == nil {
			return corrupt(en, "missing params")
		}
		if err := en.Params.Validate(); err != nil {
			return corrupt(en, err.Error())
		}
		s.params = *en.Params
		s.tiers = tier.Default(en.Params.BasePrice)
		s.constructed = true

	case journal.KindSubscribed:
		if !s.constructed {
			return corrupt(en, "subscription before construction")
		}
		if !en.Tier.Valid() {
			return corrupt(en, "invalid tier")
		}
		rec, _ := s.book.Get(en.Account)
		if en.NewExpiry < rec.ExpiryHeight {
			return corrupt(en, "expiry moved backwards")
		}
		if en.TokenID != 0 {
			if rec.HasPass || en.TokenID != s.tokens+1 {
				return corrupt(en, "unexpected token id")
			}
			rec.HasPass = true
			rec.TokenID = en.TokenID
			s.tokens = en.TokenID
			s.counters.RecordSubscriber()
		} else if !rec.HasPass {
			return corrupt(en, "first subscription without token")
		}
		rec.ExpiryHeight = en.NewExpiry
		rec.Tier = en.Tier
		s.book.Put(rec)
		s.book.Enroll(en.Account)
		s.counters.RecordRevenue(en.Amount)

	case journal.KindParamsUpdated:
		if !s.constructed || en.Params == nil {
			return corrupt(en, "params update without params")
		}
		if err := en.Params.Validate(); err != nil {
			return corrupt(en, err.Error())
		}
		s.params.BasePrice = en.Params.BasePrice
		s.params.PeriodLength = en.Params.PeriodLength

	case journal.KindTierPriceUpdated:
		if !s.tiers.Set(en.Tier, en.Amount) {
			return corrupt(en, "invalid tier")
		}

	case journal.KindAutoRenewalSet:
		rec, _ := s.book.Get(en.Account)
		rec.AutoRenewal = en.Enabled
		s.book.Put(rec)

	case journal.KindWithdrawn:
		// Informational: held balance lives on the ledger, revenue is
		// lifetime and never reduced.

	default:
		return corrupt(en, "unknown kind "+string(en.Kind))
	}

	s.seq = en.Seq
	return nil
}

func corrupt(en *journal.Entry, reason string) error {
	return fmt.Errorf("%w: seq %d (%s): %s", ErrJournalCorrupt, en.Seq, en.Kind, reason)
}

// quote runs the validation and arithmetic of a payment without changing
// anything.
func (s *state) quote(account types.Account, t tier.Tier, amount types.Balance, now types.Height) (Receipt, error) {
	if !t.Valid() {
		return Receipt{}, ErrInvalidTier
	}
	if !s.tiers.Configured(t) {
		return Receipt{}, ErrTierNotConfigured
	}
	price := s.tiers.PriceOf(t)
	if amount < price {
		return Receipt{}, ErrInsufficientFunds
	}

	periods := clampPeriods(amount.Div(price))

	rec, _ := s.book.Get(account)
	base := rec.ExpiryHeight.Max(now)

	return Receipt{
		Periods:   periods,
		NewExpiry: base.Add(s.params.PeriodLength.Mul(periods)),
	}, nil
}

func clampPeriods(n uint64) uint32 {
	if n > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n)
}

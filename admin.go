package escrow

import (
	"context"
	"fmt"

	"github.com/xraph/escrow/event"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Construct configures the escrow. The caller becomes the creator and the
// tier prices start at basePrice, 2×basePrice and 3×basePrice.
func (e *Escrow) Construct(ctx context.Context, basePrice types.Balance, periodLength types.Height, name, description string) error {
	caller := e.env.Caller(ctx)

	p, err := func() (*params.Params, error) {
		e.mu.Lock()
		defer e.mu.Unlock()

		if err := e.ready(); err != nil {
			return nil, err
		}
		if e.state.constructed {
			return nil, ErrAlreadyConstructed
		}
		if caller.IsZero() {
			return nil, ErrInvalidAccount
		}
		if periodLength == 0 {
			return nil, ErrInvalidPeriod
		}

		p := &params.Params{
			Creator:      caller,
			BasePrice:    basePrice,
			PeriodLength: periodLength,
			Name:         name,
			Description:  description,
		}
		en := &journal.Entry{
			Kind:   journal.KindConstructed,
			Height: e.env.Height(ctx),
			Caller: caller,
			Params: p,
		}
		if err := e.commit(ctx, en); err != nil {
			return nil, err
		}
		return p, nil
	}()
	if err != nil {
		return err
	}

	e.plugins.EmitConstructed(ctx, event.Constructed{
		Creator:      p.Creator,
		BasePrice:    p.BasePrice,
		PeriodLength: p.PeriodLength,
		Name:         p.Name,
	})
	return nil
}

// requireCreator must be called with e.mu held.
func (e *Escrow) requireCreator(caller types.Account) error {
	if err := e.constructed(); err != nil {
		return err
	}
	if !e.state.params.IsCreator(caller) {
		return ErrUnauthorized
	}
	return nil
}

// UpdateParams changes the base price and period length. Tier prices are
// left as they are; reprice them with UpdateTierPrice.
func (e *Escrow) UpdateParams(ctx context.Context, basePrice types.Balance, periodLength types.Height) error {
	caller := e.env.Caller(ctx)

	err := func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		if err := e.requireCreator(caller); err != nil {
			return err
		}
		if periodLength == 0 {
			return ErrInvalidPeriod
		}

		next := e.state.params
		next.BasePrice = basePrice
		next.PeriodLength = periodLength

		return e.commit(ctx, &journal.Entry{
			Kind:   journal.KindParamsUpdated,
			Height: e.env.Height(ctx),
			Caller: caller,
			Params: &next,
		})
	}()
	if err != nil {
		return err
	}

	e.plugins.EmitParamsUpdated(ctx, event.ParamsUpdated{
		BasePrice:    basePrice,
		PeriodLength: periodLength,
	})
	return nil
}

// UpdateTierPrice sets the per-period price of tier t. A price of zero
// closes the tier to new payments.
func (e *Escrow) UpdateTierPrice(ctx context.Context, t tier.Tier, price types.Balance) error {
	caller := e.env.Caller(ctx)

	err := func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		if err := e.requireCreator(caller); err != nil {
			return err
		}
		if !t.Valid() {
			return ErrInvalidTier
		}

		return e.commit(ctx, &journal.Entry{
			Kind:   journal.KindTierPriceUpdated,
			Height: e.env.Height(ctx),
			Caller: caller,
			Tier:   t,
			Amount: price,
		})
	}()
	if err != nil {
		return err
	}

	e.plugins.EmitTierPriceUpdated(ctx, event.TierPriceUpdated{Tier: t, Price: price})
	return nil
}

// Withdraw moves the entire held balance to the creator and returns the
// amount moved. Lifetime revenue is not affected.
func (e *Escrow) Withdraw(ctx context.Context) (types.Balance, error) {
	caller := e.env.Caller(ctx)

	e.mu.Lock()
	if err := e.requireCreator(caller); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	creator := e.state.params.Creator

	held, err := e.env.Balance(ctx)
	if err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("escrow: read balance: %w", err)
	}
	if held.IsZero() {
		e.mu.Unlock()
		return 0, nil
	}

	if err := e.env.Transfer(ctx, creator, held); err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	// The transfer already happened; a journal failure here only loses the
	// history line.
	if err := e.commit(ctx, &journal.Entry{
		Kind:    journal.KindWithdrawn,
		Height:  e.env.Height(ctx),
		Caller:  caller,
		Account: creator,
		Amount:  held,
	}); err != nil {
		e.logger.Warn("escrow: withdrawal not journaled",
			"amount", held.String(),
			"error", err,
		)
	}
	e.mu.Unlock()

	e.plugins.EmitWithdrawn(ctx, event.Withdrawn{To: creator, Amount: held})
	return held, nil
}

// SetAutoRenewal stores the caller's own renewal preference. The flag is
// advisory: nothing in the escrow renews on its behalf.
func (e *Escrow) SetAutoRenewal(ctx context.Context, enabled bool) error {
	caller := e.env.Caller(ctx)

	err := func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		if err := e.constructed(); err != nil {
			return err
		}
		if caller.IsZero() {
			return ErrInvalidAccount
		}

		return e.commit(ctx, &journal.Entry{
			Kind:    journal.KindAutoRenewalSet,
			Height:  e.env.Height(ctx),
			Caller:  caller,
			Account: caller,
			Enabled: enabled,
		})
	}()
	if err != nil {
		return err
	}

	e.plugins.EmitAutoRenewalToggled(ctx, event.AutoRenewalToggled{
		Subscriber: caller,
		Enabled:    enabled,
	})
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Script is a sequence of calls replayed against the simulated ledger.
//
//	height: 0
//	steps:
//	  - {as: creator, op: construct, price: 100, period: 5, name: Creator Direct}
//	  - {as: alice, op: subscribe, tier: silver, amount: 600}
//	  - {op: advance, blocks: 10}
//	  - {as: bob, op: subscribe, amount: 50, expect: insufficient_funds}
type Script struct {
	Height uint32 `yaml:"height"`
	Steps  []Step `yaml:"steps"`
}

// Step is one call. Which fields apply depends on Op.
type Step struct {
	Op     string `yaml:"op"`
	As     string `yaml:"as"`
	Amount string `yaml:"amount"`
	Tier   string `yaml:"tier"`
	To     string `yaml:"to"`

	Price       string `yaml:"price"`
	Period      uint32 `yaml:"period"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`

	Blocks uint32 `yaml:"blocks"`
	Height uint32 `yaml:"height"`

	// Expect is the error kind the step must fail with, or empty.
	Expect string `yaml:"expect"`
}

// Step operations.
const (
	OpConstruct       = "construct"
	OpSubscribe       = "subscribe"
	OpGift            = "gift"
	OpUpdateParams    = "update_params"
	OpUpdateTierPrice = "update_tier_price"
	OpWithdraw        = "withdraw"
	OpAutoRenewal     = "auto_renewal"
	OpAdvance         = "advance"
	OpSetHeight       = "set_height"
)

// ErrExpectation is returned when a step's outcome differs from its expect.
var ErrExpectation = errors.New("step outcome did not match expectation")

// LoadScript reads a YAML script file.
func LoadScript(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var sc Script
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}
	return &sc, nil
}

// run executes every step and writes one line per step to w. It stops at
// the first step whose outcome contradicts its expectation.
func (sc *Script) run(ctx context.Context, rt *runtime, w io.Writer) error {
	rt.chain.SetHeight(types.Height(sc.Height))

	for i, st := range sc.Steps {
		summary, err := st.exec(ctx, rt)

		outcome := "ok"
		if err != nil {
			outcome = "error " + escrow.KindOf(err).String()
		}
		fmt.Fprintf(w, "%3d  h=%-6d %-18s %-10s %s", i+1, rt.chain.Height(ctx), st.Op, st.As, outcome)
		if summary != "" {
			fmt.Fprintf(w, "  %s", summary)
		}
		fmt.Fprintln(w)

		if err := st.check(err); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func (st Step) check(err error) error {
	switch {
	case st.Expect == "" && err == nil:
		return nil
	case st.Expect == "":
		return fmt.Errorf("%w: unexpected error: %w", ErrExpectation, err)
	case err == nil:
		return fmt.Errorf("%w: want %s, got success", ErrExpectation, st.Expect)
	case escrow.KindOf(err).String() != st.Expect:
		return fmt.Errorf("%w: want %s, got %s: %w", ErrExpectation, st.Expect, escrow.KindOf(err), err)
	default:
		return nil
	}
}

func (st Step) exec(ctx context.Context, rt *runtime) (string, error) {
	caller := types.Account(st.As)
	e := rt.engine

	switch st.Op {
	case OpAdvance:
		rt.chain.Advance(types.Height(st.Blocks))
		return "", nil
	case OpSetHeight:
		rt.chain.SetHeight(types.Height(st.Height))
		return "", nil
	case OpConstruct:
		price, err := parseAmount(st.Price)
		if err != nil {
			return "", err
		}
		return "", e.Construct(sim.As(ctx, caller), price, types.Height(st.Period), st.Name, st.Description)
	case OpUpdateParams:
		price, err := parseAmount(st.Price)
		if err != nil {
			return "", err
		}
		return "", e.UpdateParams(sim.As(ctx, caller), price, types.Height(st.Period))
	case OpUpdateTierPrice:
		t, err := tier.Parse(st.Tier)
		if err != nil {
			return "", err
		}
		price, err := parseAmount(st.Price)
		if err != nil {
			return "", err
		}
		return "", e.UpdateTierPrice(sim.As(ctx, caller), t, price)
	case OpWithdraw:
		amount, err := e.Withdraw(sim.As(ctx, caller))
		return "amount=" + amount.String(), err
	case OpAutoRenewal:
		return fmt.Sprintf("enabled=%t", st.Enabled), e.SetAutoRenewal(sim.As(ctx, caller), st.Enabled)
	case OpSubscribe, OpGift:
		return st.pay(ctx, rt)
	default:
		return "", fmt.Errorf("%w: unknown op %q", escrow.ErrInvalidInput, st.Op)
	}
}

func (st Step) pay(ctx context.Context, rt *runtime) (string, error) {
	amount, err := parseAmount(st.Amount)
	if err != nil {
		return "", err
	}
	t := tier.Bronze
	if st.Tier != "" {
		if t, err = tier.Parse(st.Tier); err != nil {
			return "", err
		}
	}

	var rc escrow.Receipt
	err = rt.chain.Invoke(ctx, types.Account(st.As), amount, func(ctx context.Context) error {
		var err error
		if st.Op == OpGift {
			rc, err = rt.engine.GiftSubscription(ctx, types.Account(st.To), t)
		} else {
			rc, err = rt.engine.SubscribeWithTier(ctx, t)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("periods=%d expiry=%d", rc.Periods, rc.NewExpiry), nil
}

func parseAmount(s string) (types.Balance, error) {
	b, err := types.ParseBalance(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", escrow.ErrInvalidInput, err)
	}
	return b, nil
}

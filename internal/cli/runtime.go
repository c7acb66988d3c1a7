package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/plugin"
	"github.com/xraph/escrow/store"
	"github.com/xraph/escrow/store/bolt"
	"github.com/xraph/escrow/store/memory"
	"github.com/xraph/escrow/types"
)

// runtime is a started escrow on the simulated ledger.
type runtime struct {
	chain  *sim.Ledger
	engine *escrow.Escrow
}

func openStore(cfg Config) (store.Store, error) {
	switch cfg.Driver {
	case "bolt":
		return bolt.Open(cfg.Journal)
	default:
		return memory.New(), nil
	}
}

// start opens the configured journal, replays it and returns the running
// escrow. The caller must call stop.
func start(ctx context.Context, cfg Config, logger *slog.Logger, plugins ...plugin.Plugin) (*runtime, error) {
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := []escrow.Option{
		escrow.WithLogger(logger),
		escrow.WithBlockTime(cfg.BlockTime),
	}
	for _, p := range plugins {
		opts = append(opts, escrow.WithPlugin(p))
	}

	rt := &runtime{chain: sim.New(types.Height(cfg.Height))}
	rt.engine = escrow.New(s, rt.chain, opts...)

	if err := rt.engine.Start(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("start escrow: %w", err)
	}
	return rt, nil
}

func (rt *runtime) stop() error {
	return rt.engine.Stop()
}

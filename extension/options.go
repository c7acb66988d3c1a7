package extension

import (
	"time"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/chain"
	"github.com/xraph/escrow/plugin"
	"github.com/xraph/escrow/store"
)

// Option configures the escrow Forge extension.
type Option func(*Extension)

// WithStore sets the journal store for the escrow engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEnv sets the ledger runtime the escrow executes on.
func WithEnv(env chain.Env) Option {
	return func(e *Extension) {
		e.env = env
	}
}

// WithEscrowOption passes an escrow.Option through to the underlying engine.
func WithEscrowOption(opt escrow.Option) Option {
	return func(e *Extension) {
		e.escrowOpts = append(e.escrowOpts, opt)
	}
}

// WithPlugin registers an escrow plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.escrowOpts = append(e.escrowOpts, escrow.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents building the HTTP query handler.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for escrow routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithBlockTime sets the average block time.
func WithBlockTime(d time.Duration) Option {
	return func(e *Extension) { e.config.BlockTime = d }
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}

// WithBolt selects the bolt driver with the given journal file.
func WithBolt(path string) Option {
	return func(e *Extension) {
		e.config.Driver = DriverBolt
		e.config.BoltPath = path
	}
}

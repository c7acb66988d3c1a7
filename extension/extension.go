// Package extension provides the Forge extension adapter for the escrow.
//
// It implements the forge.Extension interface to integrate the escrow
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.escrow" or "escrow" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/api"
	"github.com/xraph/escrow/chain"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/store"
	"github.com/xraph/escrow/store/bolt"
	"github.com/xraph/escrow/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "escrow"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Recurring-access subscription escrow"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the escrow as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *escrow.Escrow
	store      store.Store
	env        chain.Env
	handler    http.Handler
	escrowOpts []escrow.Option
}

// New creates a new escrow Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Escrow instance.
// This is nil until Register is called.
func (e *Extension) Engine() *escrow.Escrow { return e.engine }

// Handler returns the read-only HTTP surface mounted at the configured
// base path, or nil when routes are disabled.
func (e *Extension) Handler() http.Handler { return e.handler }

// Register implements [forge.Extension]. It loads configuration,
// initializes the escrow engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if e.env == nil {
		e.Logger().Warn("escrow: no ledger runtime configured, using in-process simulator")
	}

	if err := e.build(); err != nil {
		return err
	}

	return vessel.Provide(fapp.Container(), func() (*escrow.Escrow, error) {
		return e.engine, nil
	})
}

// build opens the store and constructs the engine and handler from the
// resolved config.
func (e *Extension) build() error {
	if e.store == nil {
		s, err := openStore(e.config)
		if err != nil {
			return err
		}
		e.store = s
	}
	if e.env == nil {
		e.env = sim.New(0)
	}

	e.engine = escrow.New(e.store, e.env, e.buildEscrowOpts()...)

	if !e.config.DisableRoutes {
		r := chi.NewRouter()
		r.Mount(e.config.BasePath, api.New(e.engine).Handle())
		e.handler = r
	}
	return nil
}

// openStore opens the journal backend named by cfg.Driver.
func openStore(cfg Config) (store.Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return memory.New(), nil
	case DriverBolt:
		s, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("escrow: open bolt journal: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("escrow: unknown store driver %q", cfg.Driver)
	}
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("escrow: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("escrow: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEscrowOpts constructs escrow.Option values from the resolved config.
func (e *Extension) buildEscrowOpts() []escrow.Option {
	opts := make([]escrow.Option, 0, len(e.escrowOpts)+3)

	if e.config.BlockTime > 0 {
		opts = append(opts, escrow.WithBlockTime(e.config.BlockTime))
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, escrow.WithPluginTimeout(e.config.PluginTimeout))
	}
	if e.config.DisableMigrate {
		opts = append(opts, escrow.WithoutMigrate())
	}

	// Pass-through options go last so they win.
	opts = append(opts, e.escrowOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("escrow: configuration is required but not found in config files; " +
				"ensure 'extensions.escrow' or 'escrow' key exists in your config")
		}

		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("escrow: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("block_time", e.config.BlockTime),
		forge.F("plugin_timeout", e.config.PluginTimeout),
		forge.F("driver", e.config.Driver),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.escrow", "escrow"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("escrow: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("escrow: loaded config from file",
			forge.F("key", key),
		)
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	if cfg.BlockTime == 0 {
		cfg.BlockTime = defaults.BlockTime
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	if cfg.Driver == "" {
		cfg.Driver = defaults.Driver
	}
	if cfg.BoltPath == "" {
		cfg.BoltPath = defaults.BoltPath
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	if yamlConfig.BasePath == "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.Driver == "" {
		yamlConfig.Driver = programmaticConfig.Driver
	}
	if yamlConfig.BoltPath == "" {
		yamlConfig.BoltPath = programmaticConfig.BoltPath
	}
	if yamlConfig.BlockTime == 0 {
		yamlConfig.BlockTime = programmaticConfig.BlockTime
	}
	if yamlConfig.PluginTimeout == 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}

	return mergeWithDefaults(yamlConfig)
}

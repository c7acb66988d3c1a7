package extension

import "time"

// Store drivers the extension can open on its own. Grove-backed stores
// (postgres, sqlite, mongo) are passed in with WithStore.
const (
	DriverMemory = "memory"
	DriverBolt   = "bolt"
)

// Config holds the escrow extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.escrow" or "escrow" keys).
type Config struct {
	// DisableRoutes prevents building the HTTP query handler.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for escrow routes (default: "/escrow").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// BlockTime is the average ledger block time used for time-remaining
	// estimates (default: 12s).
	BlockTime time.Duration `json:"block_time" mapstructure:"block_time" yaml:"block_time"`

	// PluginTimeout bounds each plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// Driver selects the journal backend when no store was given
	// programmatically: "memory" or "bolt" (default: "memory").
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// BoltPath is the journal file used by the bolt driver
	// (default: "escrow.db").
	BoltPath string `json:"bolt_path" mapstructure:"bolt_path" yaml:"bolt_path"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:      "/escrow",
		BlockTime:     12 * time.Second,
		PluginTimeout: 5 * time.Second,
		Driver:        DriverMemory,
		BoltPath:      "escrow.db",
	}
}

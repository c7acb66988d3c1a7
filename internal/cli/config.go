package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the escrowctl configuration. Values come from defaults, then
// the YAML file, then ESCROW_* environment variables (a .env file in the
// working directory is loaded first).
type Config struct {
	LogLevel  string `yaml:"log_level" env:"ESCROW_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"ESCROW_LOG_FORMAT"`

	// Driver is "memory" or "bolt".
	Driver string `yaml:"driver" env:"ESCROW_DRIVER"`
	// Journal is the bolt journal file.
	Journal string `yaml:"journal" env:"ESCROW_JOURNAL"`

	Listen    string        `yaml:"listen" env:"ESCROW_LISTEN"`
	BasePath  string        `yaml:"base_path" env:"ESCROW_BASE_PATH"`
	BlockTime time.Duration `yaml:"block_time" env:"ESCROW_BLOCK_TIME"`
	// Height is the simulated ledger height for inspect and serve.
	Height uint32 `yaml:"height" env:"ESCROW_HEIGHT"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Driver:    "memory",
		Journal:   "escrow.db",
		Listen:    ":8080",
		BasePath:  "/escrow",
		BlockTime: 12 * time.Second,
	}
}

// LoadConfig reads path (optional) and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Driver {
	case "memory":
	case "bolt":
		if c.Journal == "" {
			return errors.New("bolt driver needs a journal path")
		}
	default:
		return fmt.Errorf("unknown driver %q (want memory or bolt)", c.Driver)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path %q must start with /", c.BasePath)
	}
	return nil
}

// Logger builds the slog logger described by the config.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

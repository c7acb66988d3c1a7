package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeFile(t, "escrow.yaml", `
driver: bolt
journal: /var/lib/escrow/journal.db
block_time: 6s
listen: ":9000"
height: 40
`)
	t.Setenv("ESCROW_LISTEN", ":7000")
	t.Setenv("ESCROW_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Driver)
	assert.Equal(t, "/var/lib/escrow/journal.db", cfg.Journal)
	assert.Equal(t, 6*time.Second, cfg.BlockTime)
	assert.Equal(t, uint32(40), cfg.Height)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/escrow", cfg.BasePath)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "driver: postgres"},
		{"relative base path", "base_path: escrow"},
		{"bolt without journal", "driver: bolt\njournal: \"\""},
		{"malformed yaml", "driver: [bolt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "escrow.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

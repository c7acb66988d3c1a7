package extension

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/store/bolt"
	"github.com/xraph/escrow/store/memory"
)

func TestMergeWithDefaults(t *testing.T) {
	cfg := mergeWithDefaults(Config{BlockTime: 6 * time.Second})

	assert.Equal(t, 6*time.Second, cfg.BlockTime)
	assert.Equal(t, "/escrow", cfg.BasePath)
	assert.Equal(t, 5*time.Second, cfg.PluginTimeout)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, "escrow.db", cfg.BoltPath)
}

func TestMergeConfigurations(t *testing.T) {
	file := Config{BasePath: "/sub", Driver: DriverBolt}
	prog := Config{
		BasePath:       "/ignored",
		DisableMigrate: true,
		BoltPath:       "/data/journal.db",
		BlockTime:      time.Second,
	}

	cfg := mergeConfigurations(file, prog)

	assert.Equal(t, "/sub", cfg.BasePath)
	assert.Equal(t, DriverBolt, cfg.Driver)
	assert.Equal(t, "/data/journal.db", cfg.BoltPath)
	assert.True(t, cfg.DisableMigrate)
	assert.False(t, cfg.DisableRoutes)
	assert.Equal(t, time.Second, cfg.BlockTime)
	assert.Equal(t, 5*time.Second, cfg.PluginTimeout)
}

func TestOpenStore(t *testing.T) {
	s, err := openStore(Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	path := filepath.Join(t.TempDir(), "journal.db")
	s, err = openStore(Config{Driver: DriverBolt, BoltPath: path})
	require.NoError(t, err)
	assert.IsType(t, &bolt.Store{}, s)
	require.NoError(t, s.Close())

	_, err = openStore(Config{Driver: "redis"})
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestBuildServesQueries(t *testing.T) {
	ctx := context.Background()
	chain := sim.New(0)
	e := New(WithEnv(chain), WithBasePath("/pay"))
	e.config = mergeWithDefaults(e.config)

	require.NoError(t, e.build())
	require.NotNil(t, e.Engine())
	require.NoError(t, e.Engine().Start(ctx))
	require.NoError(t, e.Engine().Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", ""))
	require.NoError(t, e.Health(ctx))

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pay/params", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Creator Direct"`)
}

func TestBuildWithoutRoutes(t *testing.T) {
	e := New(WithDisableRoutes(), WithStore(memory.New()))
	e.config = mergeWithDefaults(e.config)

	require.NoError(t, e.build())
	assert.Nil(t, e.Handler())
}

func TestDisableMigrateSkipsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")
	e := New(WithBolt(path), WithDisableMigrate(), WithEnv(sim.New(0)))
	e.config = mergeWithDefaults(e.config)
	require.NoError(t, e.build())
	t.Cleanup(func() { _ = e.Engine().Stop() })

	require.NoError(t, e.Engine().Start(ctx))

	// The journal bucket was never created, so nothing can be committed.
	err := e.Engine().Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", "")
	require.ErrorIs(t, err, escrow.ErrCommitFailed)
}

package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/store/storetest"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "escrow.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	return s, path
}

func TestStore(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	storetest.Run(t, s)
}

func TestReopenKeepsJournal(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	for _, e := range storetest.Sample() {
		require.NoError(t, s.Append(ctx, e))
	}
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(ctx))

	entries, err := reopened.List(ctx, journal.ListOpts{})
	require.NoError(t, err)
	require.Len(t, entries, len(storetest.Sample()))
	assert.Equal(t, "Creator Direct", entries[0].Params.Name)

	assert.Error(t, s.Ping(ctx))
}

func TestAppendBeforeMigrate(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "escrow.db"))
	require.NoError(t, err)
	defer s.Close()

	err = s.Append(context.Background(), storetest.Sample()[0])
	assert.Error(t, err)

	entries, err := s.List(context.Background(), journal.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/store"
	"github.com/xraph/escrow/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}

func TestClosedStore(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	ctx := context.Background()
	assert.ErrorIs(t, s.Append(ctx, &journal.Entry{Seq: 1}), store.ErrClosed)
	assert.ErrorIs(t, s.Ping(ctx), store.ErrClosed)
	_, err := s.List(ctx, journal.ListOpts{})
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestAppendCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := storetest.Sample()[0]
	require.NoError(t, s.Append(ctx, e))

	e.Params.Name = "changed"
	got, err := s.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Creator Direct", got.Params.Name)
}

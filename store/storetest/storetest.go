// Package storetest holds the behaviour every escrow store backend must
// share, runnable against any implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/store"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Run exercises s. The store must be empty and migrated.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	last, err := s.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	entries := Sample()
	for _, e := range entries {
		require.NoError(t, s.Append(ctx, e))
	}

	err = s.Append(ctx, &journal.Entry{ID: id.NewEntryID(), Seq: 2, Kind: journal.KindWithdrawn})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicateSeq), "duplicate seq: %v", err)

	all, err := s.List(ctx, journal.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, len(entries))
	for i, e := range all {
		assert.Equal(t, uint64(i+1), e.Seq)
	}

	constructed := all[0]
	require.NotNil(t, constructed.Params)
	assert.Equal(t, types.Account("creator"), constructed.Params.Creator)
	assert.Equal(t, types.Balance(100), constructed.Params.BasePrice)
	assert.Equal(t, types.Height(5), constructed.Params.PeriodLength)
	assert.Equal(t, "Creator Direct", constructed.Params.Name)

	sub := all[1]
	assert.Equal(t, journal.KindSubscribed, sub.Kind)
	assert.Equal(t, entries[1].ID.String(), sub.ID.String())
	assert.Equal(t, types.Account("alice"), sub.Account)
	assert.Equal(t, types.Account("alice"), sub.Caller)
	assert.Equal(t, types.Balance(300), sub.Amount)
	assert.Equal(t, uint32(3), sub.Periods)
	assert.Equal(t, types.Height(15), sub.NewExpiry)
	assert.Equal(t, uint64(1), sub.TokenID)
	assert.Equal(t, tier.Bronze, sub.Tier)

	gift := all[2]
	assert.True(t, gift.Gift)
	assert.Equal(t, types.Account("bob"), gift.Caller)
	assert.Equal(t, types.Account("carol"), gift.Account)
	assert.Equal(t, tier.Gold, gift.Tier)
	assert.Equal(t, types.Balance(1<<63), gift.Amount)

	renewal := all[3]
	assert.Equal(t, journal.KindAutoRenewalSet, renewal.Kind)
	assert.True(t, renewal.Enabled)

	subs, err := s.List(ctx, journal.ListOpts{Kind: journal.KindSubscribed})
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	alice, err := s.List(ctx, journal.ListOpts{Account: "alice"})
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	page, err := s.List(ctx, journal.ListOpts{AfterSeq: 1, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(3), page[0].Seq)
	assert.Equal(t, uint64(4), page[1].Seq)

	last, err = s.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, uint64(len(entries)), last.Seq)

	require.NoError(t, s.Ping(ctx))
}

// Sample returns a small, valid journal.
func Sample() []*journal.Entry {
	return []*journal.Entry{
		{
			Entity: types.NewEntity(),
			ID:     id.NewEntryID(),
			Seq:    1,
			Kind:   journal.KindConstructed,
			Caller: "creator",
			Params: &params.Params{
				Creator:      "creator",
				BasePrice:    100,
				PeriodLength: 5,
				Name:         "Creator Direct",
				Description:  "members only",
			},
		},
		{
			Entity:    types.NewEntity(),
			ID:        id.NewEntryID(),
			Seq:       2,
			Kind:      journal.KindSubscribed,
			Caller:    "alice",
			Account:   "alice",
			Tier:      tier.Bronze,
			Amount:    300,
			Periods:   3,
			NewExpiry: 15,
			TokenID:   1,
		},
		{
			Entity:    types.NewEntity(),
			ID:        id.NewEntryID(),
			Seq:       3,
			Kind:      journal.KindSubscribed,
			Height:    2,
			Caller:    "bob",
			Account:   "carol",
			Tier:      tier.Gold,
			Amount:    1 << 63,
			Periods:   1,
			NewExpiry: 7,
			TokenID:   2,
			Gift:      true,
		},
		{
			Entity:  types.NewEntity(),
			ID:      id.NewEntryID(),
			Seq:     4,
			Kind:    journal.KindAutoRenewalSet,
			Height:  3,
			Caller:  "alice",
			Account: "alice",
			Enabled: true,
		},
	}
}

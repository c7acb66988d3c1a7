package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOptsMatches(t *testing.T) {
	e := &Entry{Seq: 4, Kind: KindSubscribed, Account: "alice"}

	assert.True(t, ListOpts{}.Matches(e))
	assert.True(t, ListOpts{AfterSeq: 3, Kind: KindSubscribed, Account: "alice"}.Matches(e))
	assert.False(t, ListOpts{AfterSeq: 4}.Matches(e))
	assert.False(t, ListOpts{Kind: KindWithdrawn}.Matches(e))
	assert.False(t, ListOpts{Account: "bob"}.Matches(e))
}

func TestIssuedToken(t *testing.T) {
	assert.True(t, (&Entry{Kind: KindSubscribed, TokenID: 1}).IssuedToken())
	assert.False(t, (&Entry{Kind: KindSubscribed}).IssuedToken())
	assert.False(t, (&Entry{Kind: KindWithdrawn, TokenID: 1}).IssuedToken())
	assert.True(t, KindAutoRenewalSet.Valid())
	assert.False(t, Kind("refund").Valid())
}

func TestFilterPaging(t *testing.T) {
	var entries []*Entry
	for i := uint64(1); i <= 6; i++ {
		kind := KindSubscribed
		if i%2 == 0 {
			kind = KindTierPriceUpdated
		}
		entries = append(entries, &Entry{Seq: i, Kind: kind})
	}

	got := Filter(entries, ListOpts{Kind: KindSubscribed, Offset: 1, Limit: 1})
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].Seq)

	assert.Len(t, Filter(entries, ListOpts{AfterSeq: 2}), 4)
	assert.Empty(t, Filter(entries, ListOpts{Offset: 10}))
}

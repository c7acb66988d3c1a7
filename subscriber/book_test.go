package subscriber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

func TestBookLazyRecord(t *testing.T) {
	b := NewBook()

	r, ok := b.Get("alice")
	assert.False(t, ok)
	assert.Equal(t, types.Account("alice"), r.Account)
	assert.Zero(t, r.ExpiryHeight)
	assert.Equal(t, tier.Bronze, r.Tier)
}

func TestBookEnrollOnce(t *testing.T) {
	b := NewBook()
	b.Put(Record{Account: "alice", ExpiryHeight: 10})

	assert.True(t, b.Enroll("alice"))
	assert.False(t, b.Enroll("alice"))
	assert.True(t, b.IsMember("alice"))
	require.Len(t, b.Records(), 1)
	assert.Equal(t, types.Account("alice"), b.Records()[0].Account)
}

func TestBookActiveCountFollowsHeight(t *testing.T) {
	b := NewBook()
	for account, expiry := range map[types.Account]types.Height{"alice": 15, "bob": 5, "carol": 9} {
		b.Put(Record{Account: account, ExpiryHeight: expiry})
		b.Enroll(account)
	}

	assert.Equal(t, 3, b.ActiveCount(0))
	assert.Equal(t, 3, b.ActiveCount(4))
	assert.Equal(t, 2, b.ActiveCount(5))
	assert.Equal(t, 1, b.ActiveCount(9))
	assert.Equal(t, 0, b.ActiveCount(15))
}

func TestBookPutReindexesMembers(t *testing.T) {
	b := NewBook()
	b.Put(Record{Account: "alice", ExpiryHeight: 5})
	b.Enroll("alice")
	b.Put(Record{Account: "bob", ExpiryHeight: 5})
	b.Enroll("bob")

	b.Put(Record{Account: "alice", ExpiryHeight: 20})
	assert.Equal(t, 1, b.ActiveCount(10))

	// Records outside the active set never reach the index.
	b.Put(Record{Account: "dave", ExpiryHeight: 100, AutoRenewal: true})
	assert.Equal(t, 1, b.ActiveCount(10))
	assert.False(t, b.IsMember("dave"))
	assert.Equal(t, 3, b.Len())
}

func TestBookRecordsAreCopies(t *testing.T) {
	b := NewBook()
	b.Put(Record{Account: "alice", ExpiryHeight: 5})
	b.Enroll("alice")

	records := b.Records()
	require.Len(t, records, 1)
	records[0].ExpiryHeight = 99

	r, _ := b.Get("alice")
	assert.Equal(t, types.Height(5), r.ExpiryHeight)
}

func TestRecordHelpers(t *testing.T) {
	r := Record{Account: "alice", ExpiryHeight: 20}

	assert.True(t, r.ActiveAt(19))
	assert.False(t, r.ActiveAt(20))

	_, ok := r.Token()
	assert.False(t, ok)

	r.HasPass, r.TokenID = true, 7
	tok, ok := r.Token()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), tok)

	assert.Equal(t, 120*time.Second, r.TimeRemaining(10, 12*time.Second))
	assert.Zero(t, r.TimeRemaining(30, 12*time.Second))
}

package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/store/storetest"
	"github.com/xraph/escrow/types"
)

func TestEntryModelKeepsFullRange(t *testing.T) {
	for _, e := range storetest.Sample() {
		e.Amount = types.MaxBalance
		e.NewExpiry = types.MaxHeight

		m := toEntryModel(e)
		assert.Equal(t, "18446744073709551615", m.Amount)

		got, err := fromEntryModel(m)
		require.NoError(t, err)
		assert.Equal(t, e.ID.String(), got.ID.String())
		assert.Equal(t, e.Seq, got.Seq)
		assert.Equal(t, e.Payload(), got.Payload())
		assert.Equal(t, e.Caller, got.Caller)
		assert.Equal(t, e.Account, got.Account)
	}
}

func TestEntryModelRejectsBadAmount(t *testing.T) {
	m := toEntryModel(storetest.Sample()[1])
	m.Amount = "-1"
	_, err := fromEntryModel(m)
	assert.Error(t, err)
}

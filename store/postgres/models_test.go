package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/store/storetest"
	"github.com/xraph/escrow/types"
)

func TestEntryModelPayload(t *testing.T) {
	for _, e := range storetest.Sample() {
		e.Amount = types.MaxBalance

		m, err := toEntryModel(e)
		require.NoError(t, err)
		assert.Contains(t, string(m.Payload), `"18446744073709551615"`)

		got, err := fromEntryModel(m)
		require.NoError(t, err)
		assert.Equal(t, e.Payload(), got.Payload())
		assert.Equal(t, e.Kind, got.Kind)
		assert.Equal(t, e.Height, got.Height)
	}
}

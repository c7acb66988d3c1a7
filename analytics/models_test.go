package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xraph/escrow/types"
)

func TestCountersSaturate(t *testing.T) {
	c := Counters{TotalRevenue: types.MaxBalance - 10, TotalSubscribers: ^uint64(0)}

	c.RecordRevenue(100)
	c.RecordSubscriber()

	assert.Equal(t, types.MaxBalance, c.TotalRevenue)
	assert.Equal(t, ^uint64(0), c.TotalSubscribers)
}

func TestSummarize(t *testing.T) {
	var c Counters
	c.RecordRevenue(300)
	c.RecordRevenue(100)
	c.RecordSubscriber()
	c.RecordSubscriber()

	assert.Equal(t, Summary{TotalSubscribers: 2, TotalRevenue: 400, ActiveCount: 2}, c.Summarize(2))
}

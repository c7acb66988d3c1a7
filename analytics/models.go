// Package analytics holds the escrow's lifetime counters.
package analytics

import "github.com/xraph/escrow/types"

// Counters are monotonic: withdrawals never reduce TotalRevenue, so it
// diverges from the held balance once the creator withdraws.
type Counters struct {
	TotalSubscribers uint64        `json:"total_subscribers"`
	TotalRevenue     types.Balance `json:"total_revenue"`
}

// RecordRevenue adds an accepted amount, saturating at the maximum balance.
func (c *Counters) RecordRevenue(amount types.Balance) {
	c.TotalRevenue = c.TotalRevenue.Add(amount)
}

// RecordSubscriber counts a newly acquired subscriber.
func (c *Counters) RecordSubscriber() {
	if c.TotalSubscribers < ^uint64(0) {
		c.TotalSubscribers++
	}
}

// Summary is the analytics tuple returned to callers. ActiveCount is derived
// from the current height on every read.
type Summary struct {
	TotalSubscribers uint64        `json:"total_subscribers"`
	TotalRevenue     types.Balance `json:"total_revenue"`
	ActiveCount      uint64        `json:"active_count"`
}

// Summarize combines the stored counters with a freshly computed active count.
func (c Counters) Summarize(active int) Summary {
	return Summary{
		TotalSubscribers: c.TotalSubscribers,
		TotalRevenue:     c.TotalRevenue,
		ActiveCount:      uint64(active),
	}
}

// Package tier holds the three-slot pricing table that maps a tier to its
// per-period price.
package tier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xraph/escrow/types"
)

// Tier selects both the per-period price and the class recorded on a
// subscriber. Only Bronze, Silver and Gold are valid.
type Tier uint8

const (
	Bronze Tier = iota
	Silver
	Gold
)

// Count is the number of price slots.
const Count = 3

// All returns the valid tiers in ascending order.
func All() []Tier { return []Tier{Bronze, Silver, Gold} }

// Valid reports whether t is one of the three configured slots.
func (t Tier) Valid() bool { return t < Count }

// String returns the display name of the tier.
func (t Tier) String() string {
	switch t {
	case Bronze:
		return "bronze"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	default:
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// Parse accepts either a tier name or its numeric id. Out-of-range numbers
// are returned as-is so that the engine can reject them with its own error.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bronze":
		return Bronze, nil
	case "silver":
		return Silver, nil
	case "gold":
		return Gold, nil
	}

	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("tier: parse %q: %w", s, err)
	}
	return Tier(n), nil
}

// Prices is a snapshot of every slot, in tier order.
type Prices struct {
	Bronze types.Balance `json:"bronze"`
	Silver types.Balance `json:"silver"`
	Gold   types.Balance `json:"gold"`
}

// Of returns the price of t in the snapshot, zero when t is out of range.
func (p Prices) Of(t Tier) types.Balance {
	switch t {
	case Bronze:
		return p.Bronze
	case Silver:
		return p.Silver
	case Gold:
		return p.Gold
	default:
		return 0
	}
}

// Table is the tier pricing table. A slot priced at zero is unconfigured and
// rejects subscriptions.
type Table struct {
	prices [Count]types.Balance
}

// Default returns a table priced at base×(tier+1).
func Default(base types.Balance) Table {
	var t Table
	for i := range t.prices {
		t.prices[i] = base.Mul(uint64(i) + 1)
	}
	return t
}

// PriceOf returns the configured price of t, or zero when t is out of range
// or was never set.
func (tb *Table) PriceOf(t Tier) types.Balance {
	if !t.Valid() {
		return 0
	}
	return tb.prices[t]
}

// Set overwrites the price of t. It reports false when t is out of range.
func (tb *Table) Set(t Tier, price types.Balance) bool {
	if !t.Valid() {
		return false
	}
	tb.prices[t] = price
	return true
}

// Configured reports whether t has a non-zero price.
func (tb *Table) Configured(t Tier) bool {
	return tb.PriceOf(t) != 0
}

// Prices returns every slot at once.
func (tb *Table) Prices() Prices {
	return Prices{
		Bronze: tb.prices[Bronze],
		Silver: tb.prices[Silver],
		Gold:   tb.prices[Gold],
	}
}

// Package event defines the notifications the escrow emits after a state
// transition commits. They are fire-and-forget: consumers are indexers,
// audit trails and metrics, never the engine itself.
package event

import (
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Constructed is emitted once, when the creator configures the escrow.
type Constructed struct {
	Creator      types.Account `json:"creator"`
	BasePrice    types.Balance `json:"base_price"`
	PeriodLength types.Height  `json:"period_length"`
	Name         string        `json:"name"`
}

// Subscribed is emitted for every accepted payment, self-paid or gifted.
type Subscribed struct {
	Subscriber types.Account `json:"subscriber"`
	Periods    uint32        `json:"periods"`
	NewExpiry  types.Height  `json:"new_expiry"`
	Amount     types.Balance `json:"amount"`
	Tier       tier.Tier     `json:"tier"`
}

// Gifted is emitted in addition to Subscribed when a payer funds another
// account.
type Gifted struct {
	Payer     types.Account `json:"payer"`
	Recipient types.Account `json:"recipient"`
	Periods   uint32        `json:"periods"`
	NewExpiry types.Height  `json:"new_expiry"`
	Amount    types.Balance `json:"amount"`
	Tier      tier.Tier     `json:"tier"`
}

// TokenIssued is emitted once per account, on its first accepted payment.
type TokenIssued struct {
	Owner   types.Account `json:"owner"`
	TokenID uint64        `json:"token_id"`
}

// Withdrawn is emitted when the held balance moves to the creator.
type Withdrawn struct {
	To     types.Account `json:"to"`
	Amount types.Balance `json:"amount"`
}

// ParamsUpdated is emitted when the creator changes base price or period.
type ParamsUpdated struct {
	BasePrice    types.Balance `json:"base_price"`
	PeriodLength types.Height  `json:"period_length"`
}

// TierPriceUpdated is emitted when the creator reprices one tier.
type TierPriceUpdated struct {
	Tier  tier.Tier     `json:"tier"`
	Price types.Balance `json:"price"`
}

// AutoRenewalToggled is emitted when an account sets its own renewal flag.
type AutoRenewalToggled struct {
	Subscriber types.Account `json:"subscriber"`
	Enabled    bool          `json:"enabled"`
}

// Rejected is emitted when a payment fails validation. Nothing was committed.
type Rejected struct {
	Payer      types.Account `json:"payer"`
	Subscriber types.Account `json:"subscriber"`
	Tier       tier.Tier     `json:"tier"`
	Amount     types.Balance `json:"amount"`
	Err        error         `json:"-"`
}

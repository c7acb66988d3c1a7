// Package journal defines the commit log of an escrow. Every state
// transition the engine accepts is written as exactly one Entry; replaying
// the entries in sequence order rebuilds the full escrow state.
package journal

import (
	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Kind names the transition an entry records.
type Kind string

const (
	KindConstructed      Kind = "constructed"
	KindSubscribed       Kind = "subscribed"
	KindParamsUpdated    Kind = "params_updated"
	KindTierPriceUpdated Kind = "tier_price_updated"
	KindAutoRenewalSet   Kind = "auto_renewal_set"
	KindWithdrawn        Kind = "withdrawn"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindConstructed, KindSubscribed, KindParamsUpdated,
		KindTierPriceUpdated, KindAutoRenewalSet, KindWithdrawn:
		return true
	}
	return false
}

// Entry is one committed transition. Only the fields relevant to Kind are
// populated.
type Entry struct {
	types.Entity
	ID     id.EntryID    `json:"id"`
	Seq    uint64        `json:"seq"`
	Kind   Kind          `json:"kind"`
	Height types.Height  `json:"height"`
	Caller types.Account `json:"caller"`

	// Account is the account whose record the entry changes: the recipient
	// of a subscription, the owner of an auto-renewal flag, or the creator
	// receiving a withdrawal.
	Account types.Account `json:"account,omitempty"`

	Tier      tier.Tier     `json:"tier"`
	Amount    types.Balance `json:"amount"`
	Periods   uint32        `json:"periods,omitempty"`
	NewExpiry types.Height  `json:"new_expiry,omitempty"`
	// TokenID is non-zero only on the subscription that issued the pass.
	TokenID uint64 `json:"token_id,omitempty"`
	Gift    bool   `json:"gift,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`

	Params *params.Params `json:"params,omitempty"`
}

// IssuedToken reports whether the entry is a first-time subscription.
func (e *Entry) IssuedToken() bool {
	return e.Kind == KindSubscribed && e.TokenID != 0
}

// Payload is the kind-specific part of an entry. Backends that keep the
// common fields in indexed columns store the payload as one document.
type Payload struct {
	Tier      tier.Tier      `json:"tier"`
	Amount    types.Balance  `json:"amount"`
	Periods   uint32         `json:"periods,omitempty"`
	NewExpiry types.Height   `json:"new_expiry,omitempty"`
	TokenID   uint64         `json:"token_id,omitempty"`
	Gift      bool           `json:"gift,omitempty"`
	Enabled   bool           `json:"enabled,omitempty"`
	Params    *params.Params `json:"params,omitempty"`
}

// Payload returns the kind-specific fields of e.
func (e *Entry) Payload() Payload {
	return Payload{
		Tier:      e.Tier,
		Amount:    e.Amount,
		Periods:   e.Periods,
		NewExpiry: e.NewExpiry,
		TokenID:   e.TokenID,
		Gift:      e.Gift,
		Enabled:   e.Enabled,
		Params:    e.Params,
	}
}

// SetPayload copies p into e.
func (e *Entry) SetPayload(p Payload) {
	e.Tier = p.Tier
	e.Amount = p.Amount
	e.Periods = p.Periods
	e.NewExpiry = p.NewExpiry
	e.TokenID = p.TokenID
	e.Gift = p.Gift
	e.Enabled = p.Enabled
	e.Params = p.Params
}

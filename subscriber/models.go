// Package subscriber holds per-account escrow state and the index used to
// answer membership and active-count queries.
package subscriber

import (
	"time"

	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Record is the state kept for one account. It is created lazily the first
// time the account is referenced and never deleted.
type Record struct {
	Account      types.Account `json:"account"`
	ExpiryHeight types.Height  `json:"expiry_height"`
	HasPass      bool          `json:"has_pass"`
	Tier         tier.Tier     `json:"tier"`
	AutoRenewal  bool          `json:"auto_renewal"`
	TokenID      uint64        `json:"token_id,omitempty"`
}

// ActiveAt reports whether access is still open at height now.
func (r *Record) ActiveAt(now types.Height) bool {
	return r.ExpiryHeight > now
}

// Token returns the access-pass token id, if one was issued.
func (r *Record) Token() (uint64, bool) {
	if !r.HasPass {
		return 0, false
	}
	return r.TokenID, true
}

// TimeRemaining estimates the wall-clock time left before expiry given the
// ledger's average block time.
func (r *Record) TimeRemaining(now types.Height, blockTime time.Duration) time.Duration {
	return now.Until(r.ExpiryHeight).Duration(blockTime)
}

// Info is the status tuple returned to callers.
type Info struct {
	Active  bool         `json:"active"`
	Expiry  types.Height `json:"expiry"`
	Now     types.Height `json:"now"`
	HasPass bool         `json:"has_pass"`
}

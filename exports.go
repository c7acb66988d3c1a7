package escrow

import (
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Re-export common types for convenience so users don't have to import the
// types and tier packages.

// Balance is re-exported from types package.
type Balance = types.Balance

// Height is re-exported from types package.
type Height = types.Height

// Account is re-exported from types package.
type Account = types.Account

// Tier is re-exported from tier package.
type Tier = tier.Tier

// Re-export tier constants
const (
	Bronze = tier.Bronze
	Silver = tier.Silver
	Gold   = tier.Gold
)

// Re-export helpers
var (
	ParseBalance = types.ParseBalance
	ParseTier    = tier.Parse
	NewEntity    = types.NewEntity
)

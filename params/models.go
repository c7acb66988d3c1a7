// Package params holds the creator configuration of an escrow.
package params

import (
	"errors"

	"github.com/xraph/escrow/types"
)

// Params is fixed at construction except for BasePrice and PeriodLength,
// which the creator may change afterwards.
type Params struct {
	Creator      types.Account `json:"creator"`
	BasePrice    types.Balance `json:"base_price"`
	PeriodLength types.Height  `json:"period_length"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
}

var (
	errNoCreator = errors.New("params: creator is required")
	errNoPeriod  = errors.New("params: period length must be positive")
)

// Validate checks the invariants that hold for every stored configuration.
func (p *Params) Validate() error {
	if p.Creator.IsZero() {
		return errNoCreator
	}
	if p.PeriodLength == 0 {
		return errNoPeriod
	}
	return nil
}

// IsCreator reports whether account is the configured creator.
func (p *Params) IsCreator(account types.Account) bool {
	return !account.IsZero() && account == p.Creator
}

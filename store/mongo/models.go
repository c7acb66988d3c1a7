package mongo

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// ==================== Journal models ====================

// Amounts are stored as decimal strings: BSON has no unsigned 64-bit type.
type entryModel struct {
	grove.BaseModel `grove:"table:escrow_journal"`

	Seq       int64        `grove:"seq,pk"     bson:"_id"`
	EntryID   string       `grove:"entry_id"   bson:"entry_id"`
	Kind      string       `grove:"kind"       bson:"kind"`
	Height    int64        `grove:"height"     bson:"height"`
	Caller    string       `grove:"caller"     bson:"caller"`
	Account   string       `grove:"account"    bson:"account,omitempty"`
	Tier      int32        `grove:"tier"       bson:"tier"`
	Amount    string       `grove:"amount"     bson:"amount"`
	Periods   int64        `grove:"periods"    bson:"periods,omitempty"`
	NewExpiry int64        `grove:"new_expiry" bson:"new_expiry,omitempty"`
	TokenID   string       `grove:"token_id"   bson:"token_id,omitempty"`
	Gift      bool         `grove:"gift"       bson:"gift,omitempty"`
	Enabled   bool         `grove:"enabled"    bson:"enabled,omitempty"`
	Params    *paramsModel `grove:"params"     bson:"params,omitempty"`
	CreatedAt time.Time    `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `grove:"updated_at" bson:"updated_at"`
}

type paramsModel struct {
	Creator      string `bson:"creator"`
	BasePrice    string `bson:"base_price"`
	PeriodLength int64  `bson:"period_length"`
	Name         string `bson:"name"`
	Description  string `bson:"description"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	m := &entryModel{
		Seq:       int64(e.Seq),
		EntryID:   e.ID.String(),
		Kind:      string(e.Kind),
		Height:    int64(e.Height),
		Caller:    e.Caller.String(),
		Account:   e.Account.String(),
		Tier:      int32(e.Tier),
		Amount:    e.Amount.String(),
		Periods:   int64(e.Periods),
		NewExpiry: int64(e.NewExpiry),
		Gift:      e.Gift,
		Enabled:   e.Enabled,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.TokenID != 0 {
		m.TokenID = strconv.FormatUint(e.TokenID, 10)
	}
	if e.Params != nil {
		m.Params = &paramsModel{
			Creator:      e.Params.Creator.String(),
			BasePrice:    e.Params.BasePrice.String(),
			PeriodLength: int64(e.Params.PeriodLength),
			Name:         e.Params.Name,
			Description:  e.Params.Description,
		}
	}
	return m
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	entryID, err := id.ParseEntryID(m.EntryID)
	if err != nil {
		return nil, err
	}

	amount, err := types.ParseBalance(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("escrow/mongo: seq %d amount: %w", m.Seq, err)
	}

	e := &journal.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        entryID,
		Seq:       uint64(m.Seq),
		Kind:      journal.Kind(m.Kind),
		Height:    types.Height(m.Height),
		Caller:    types.Account(m.Caller),
		Account:   types.Account(m.Account),
		Tier:      tier.Tier(m.Tier),
		Amount:    amount,
		Periods:   uint32(m.Periods),
		NewExpiry: types.Height(m.NewExpiry),
		Gift:      m.Gift,
		Enabled:   m.Enabled,
	}

	if m.TokenID != "" {
		tok, err := strconv.ParseUint(m.TokenID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("escrow/mongo: seq %d token id: %w", m.Seq, err)
		}
		e.TokenID = tok
	}

	if m.Params != nil {
		base, err := types.ParseBalance(m.Params.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("escrow/mongo: seq %d base price: %w", m.Seq, err)
		}
		e.Params = &params.Params{
			Creator:      types.Account(m.Params.Creator),
			BasePrice:    base,
			PeriodLength: types.Height(m.Params.PeriodLength),
			Name:         m.Params.Name,
			Description:  m.Params.Description,
		}
	}
	return e, nil
}

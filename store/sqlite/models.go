package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/types"
)

// ==================== Journal models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:escrow_journal"`

	Seq       int64           `grove:"seq,pk"`
	ID        string          `grove:"id"`
	Kind      string          `grove:"kind"`
	Height    int64           `grove:"height"`
	Caller    string          `grove:"caller"`
	Account   string          `grove:"account"`
	Payload   json.RawMessage `grove:"payload"`
	CreatedAt time.Time       `grove:"created_at"`
	UpdatedAt time.Time       `grove:"updated_at"`
}

func toEntryModel(e *journal.Entry) (*entryModel, error) {
	payload, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, fmt.Errorf("escrow/sqlite: encode payload: %w", err)
	}

	return &entryModel{
		Seq:       int64(e.Seq),
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Height:    int64(e.Height),
		Caller:    e.Caller.String(),
		Account:   e.Account.String(),
		Payload:   payload,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	entryID, err := id.ParseEntryID(m.ID)
	if err != nil {
		return nil, err
	}

	var payload journal.Payload
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return nil, fmt.Errorf("escrow/sqlite: decode payload of seq %d: %w", m.Seq, err)
		}
	}

	e := &journal.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:      entryID,
		Seq:     uint64(m.Seq),
		Kind:    journal.Kind(m.Kind),
		Height:  types.Height(m.Height),
		Caller:  types.Account(m.Caller),
		Account: types.Account(m.Account),
	}
	e.SetPayload(payload)
	return e, nil
}

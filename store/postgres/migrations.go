package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the escrow store (PostgreSQL).
var Migrations = migrate.NewGroup("escrow")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_escrow_journal",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS escrow_journal (
    seq        BIGINT PRIMARY KEY,
    id         TEXT NOT NULL,
    kind       TEXT NOT NULL,
    height     BIGINT NOT NULL DEFAULT 0,
    caller     TEXT NOT NULL DEFAULT '',
    account    TEXT NOT NULL DEFAULT '',
    payload    JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_escrow_journal_id ON escrow_journal (id);
CREATE INDEX IF NOT EXISTS idx_escrow_journal_kind ON escrow_journal (kind, seq);
CREATE INDEX IF NOT EXISTS idx_escrow_journal_account ON escrow_journal (account, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS escrow_journal`)
				return err
			},
		},
	)
}

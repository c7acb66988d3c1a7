// Package store defines the persistence contract shared by every escrow
// backend.
package store

import (
	"context"
	"errors"

	"github.com/xraph/escrow/journal"
)

// Store is the unified storage interface for an escrow. All escrow state is
// derived from the journal, so a backend only has to persist entries.
type Store interface {
	journal.Store

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend errors shared by every implementation. The root package maps them
// onto its own sentinels.
var (
	ErrDuplicateSeq = errors.New("store: duplicate journal sequence")
	ErrClosed       = errors.New("store: closed")
)

package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/escrow/chain"
	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/plugin"
	"github.com/xraph/escrow/store"
	"github.com/xraph/escrow/types"
)

// DefaultBlockTime is the average block time used to turn heights into
// wall-clock estimates.
const DefaultBlockTime = 12 * time.Second

// Escrow is the recurring-access escrow engine.
//
// Every invocation runs under a single lock and commits at most one journal
// entry, so calls are applied one at a time in the order they acquire it.
// In-memory state changes only after the entry is durably appended.
type Escrow struct {
	store   store.Store
	env     chain.Env
	plugins *plugin.Registry
	logger  *slog.Logger

	id          id.EscrowID
	blockTime   time.Duration
	skipMigrate bool

	mu      sync.RWMutex
	state   *state
	started bool
}

// New creates a new Escrow instance backed by s and running on env.
func New(s store.Store, env chain.Env, opts ...Option) *Escrow {
	e := &Escrow{
		store:     s,
		env:       env,
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		id:        id.NewEscrowID(),
		blockTime: DefaultBlockTime,
		state:     newState(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Escrow instance.
type Option func(*Escrow)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Escrow) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Escrow) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Escrow) {
		e.plugins.WithTimeout(d)
	}
}

// WithBlockTime sets the average block time used by TimeRemaining.
func WithBlockTime(d time.Duration) Option {
	return func(e *Escrow) {
		if d > 0 {
			e.blockTime = d
		}
	}
}

// WithID sets the instance identifier reported by ID.
func WithID(escrowID id.EscrowID) Option {
	return func(e *Escrow) {
		e.id = escrowID
	}
}

// WithoutMigrate makes Start assume the journal schema already exists.
func WithoutMigrate() Option {
	return func(e *Escrow) {
		e.skipMigrate = true
	}
}

// ID returns the instance identifier.
func (e *Escrow) ID() id.EscrowID { return e.id }

// Plugins returns the plugin registry.
func (e *Escrow) Plugins() *plugin.Registry { return e.plugins }

// Start migrates the store unless WithoutMigrate was given, then rebuilds
// state by replaying the journal.
func (e *Escrow) Start(ctx context.Context) error {
	if !e.skipMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("escrow: migrate: %w", err)
		}
	}

	e.mu.Lock()
	entries, err := e.store.List(ctx, journal.ListOpts{})
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("escrow: load journal: %w", err)
	}

	st := newState()
	for _, en := range entries {
		if err := st.apply(en); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.state = st
	e.started = true
	e.mu.Unlock()

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("escrow started",
		"escrow_id", e.id.String(),
		"entries", len(entries),
		"constructed", st.constructed,
		"subscribers", st.counters.TotalSubscribers,
	)

	return nil
}

// Stop shuts down the Escrow and closes its store.
func (e *Escrow) Stop() error {
	e.mu.Lock()
	e.started = false
	e.mu.Unlock()

	e.plugins.EmitShutdown(context.Background())

	return e.store.Close()
}

// ready must be called with e.mu held.
func (e *Escrow) ready() error {
	if !e.started {
		return ErrNotStarted
	}
	return nil
}

// constructed must be called with e.mu held.
func (e *Escrow) constructed() error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.state.constructed {
		return ErrNotConstructed
	}
	return nil
}

// commit appends en as the next journal entry and applies it. It must be
// called with e.mu held for writing. On error nothing has changed.
func (e *Escrow) commit(ctx context.Context, en *journal.Entry) error {
	en.Entity = types.NewEntity()
	en.ID = id.NewEntryID()
	en.Seq = e.state.seq + 1

	if err := e.store.Append(ctx, en); err != nil {
		if errors.Is(err, store.ErrDuplicateSeq) {
			return fmt.Errorf("%w: seq %d already written by another writer: %w", ErrJournalCorrupt, en.Seq, err)
		}
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	if err := e.state.apply(en); err != nil {
		return err
	}

	e.logger.Debug("escrow: committed",
		"seq", en.Seq,
		"kind", string(en.Kind),
		"height", en.Height,
		"account", en.Account.String(),
	)
	return nil
}

// Package memory provides an in-memory escrow store for tests and
// development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store keeps the journal in a slice ordered by sequence.
type Store struct {
	mu      sync.RWMutex
	entries []*journal.Entry
	seqs    map[uint64]struct{}
	closed  bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		seqs: make(map[uint64]struct{}),
	}
}

// Append implements journal.Store.
func (s *Store) Append(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	if _, exists := s.seqs[e.Seq]; exists {
		return fmt.Errorf("escrow/memory: seq %d: %w", e.Seq, store.ErrDuplicateSeq)
	}

	cp := *e
	if e.Params != nil {
		p := *e.Params
		cp.Params = &p
	}

	// Entries arrive in order from the engine; keep the slice sorted even if
	// they don't.
	idx := len(s.entries)
	for idx > 0 && s.entries[idx-1].Seq > cp.Seq {
		idx--
	}
	s.entries = append(s.entries, nil)
	copy(s.entries[idx+1:], s.entries[idx:])
	s.entries[idx] = &cp
	s.seqs[cp.Seq] = struct{}{}
	return nil
}

// List implements journal.Store.
func (s *Store) List(_ context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	return journal.Filter(s.entries, opts), nil
}

// Last implements journal.Store. It returns nil when the journal is empty.
func (s *Store) Last(_ context.Context) (*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	if len(s.entries) == 0 {
		return nil, nil
	}
	return s.entries[len(s.entries)-1], nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.ErrClosed
	}
	return nil
}

// Close marks the store closed. The entries are discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}

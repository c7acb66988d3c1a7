// Package bolt provides an embedded, single-file escrow store on bbolt. It
// suits the CLI and single-node deployments that do not run a database.
package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/store"
)

const bucketJournal = "escrow_journal"

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps one JSON document per entry, keyed by big-endian sequence so
// that cursor order is sequence order.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("escrow/bolt: open %s: %w", path, err)
	}
	return New(db), nil
}

// New wraps an already open database.
func New(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying bbolt database for direct access.
func (s *Store) DB() *bbolt.DB { return s.db }

// Migrate creates the journal bucket.
func (s *Store) Migrate(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketJournal))
		return err
	})
	if err != nil {
		return fmt.Errorf("escrow/bolt: migration failed: %w", err)
	}
	return nil
}

// Ping checks that the database is still open.
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Journal Store ====================

func (s *Store) Append(_ context.Context, e *journal.Entry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("escrow/bolt: encode seq %d: %w", e.Seq, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketJournal))
		if b == nil {
			return fmt.Errorf("escrow/bolt: bucket %s missing, run Migrate", bucketJournal)
		}

		key := seqKey(e.Seq)
		if b.Get(key) != nil {
			return fmt.Errorf("escrow/bolt: seq %d: %w", e.Seq, store.ErrDuplicateSeq)
		}
		return b.Put(key, value)
	})
}

func (s *Store) List(_ context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	result := make([]*journal.Entry, 0)
	skipped := 0

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketJournal))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Seek(seqKey(opts.AfterSeq + 1)); k != nil; k, v = c.Next() {
			e, err := decode(k, v)
			if err != nil {
				return err
			}
			if !opts.Matches(e) {
				continue
			}
			if skipped < opts.Offset {
				skipped++
				continue
			}
			result = append(result, e)
			if opts.Limit > 0 && len(result) >= opts.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) Last(_ context.Context) (*journal.Entry, error) {
	var last *journal.Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketJournal))
		if b == nil {
			return nil
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return nil
		}
		e, err := decode(k, v)
		if err != nil {
			return err
		}
		last = e
		return nil
	})
	return last, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func decode(k, v []byte) (*journal.Entry, error) {
	e := new(journal.Entry)
	if err := json.Unmarshal(v, e); err != nil {
		return nil, fmt.Errorf("escrow/bolt: decode seq %d: %w", binary.BigEndian.Uint64(k), err)
	}
	if !bytes.Equal(k, seqKey(e.Seq)) {
		return nil, fmt.Errorf("escrow/bolt: key %x holds seq %d", k, e.Seq)
	}
	return e, nil
}

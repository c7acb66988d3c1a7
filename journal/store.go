package journal

import (
	"context"

	"github.com/xraph/escrow/types"
)

// Store persists journal entries.
//
// Append must be atomic per entry and must reject an entry whose Seq is
// already taken. List returns entries ordered by Seq ascending. Last returns
// nil and no error when the journal is empty.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, opts ListOpts) ([]*Entry, error)
	Last(ctx context.Context) (*Entry, error)
}

// ListOpts filters List. Zero values mean no filter; Limit 0 means no limit.
type ListOpts struct {
	AfterSeq uint64
	Kind     Kind
	Account  types.Account
	Limit    int
	Offset   int
}

// Matches reports whether e passes the kind, account and sequence filters.
// Backends that cannot push a filter down use it after loading.
func (o ListOpts) Matches(e *Entry) bool {
	if e.Seq <= o.AfterSeq {
		return false
	}
	if o.Kind != "" && e.Kind != o.Kind {
		return false
	}
	if !o.Account.IsZero() && e.Account != o.Account {
		return false
	}
	return true
}

// Filter returns the entries of a Seq-ordered slice that pass opts, with
// Offset and Limit applied.
func Filter(entries []*Entry, opts ListOpts) []*Entry {
	out := make([]*Entry, 0)
	skipped := 0
	for _, e := range entries {
		if !opts.Matches(e) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out
}

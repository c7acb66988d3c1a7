package subscriber

import (
	"sort"

	"github.com/xraph/escrow/types"
)

// Book is the in-memory subscriber record store.
//
// Accounts that ever subscribed are enrolled in the active set exactly once.
// Their expiry heights are mirrored into a sorted slice, so counting the
// members still active at a height is a binary search instead of a scan.
// Book is not safe for concurrent use; the engine serialises access.
type Book struct {
	records  map[types.Account]*Record
	members  map[types.Account]struct{}
	order    []types.Account
	expiries []types.Height
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{
		records: make(map[types.Account]*Record),
		members: make(map[types.Account]struct{}),
	}
}

// Get returns a copy of the record for account.
func (b *Book) Get(account types.Account) (Record, bool) {
	r, ok := b.records[account]
	if !ok {
		return Record{Account: account}, false
	}
	return *r, true
}

// Put stores r, replacing any previous record for the same account.
func (b *Book) Put(r Record) {
	prev, existed := b.records[r.Account]
	if existed && b.IsMember(r.Account) && prev.ExpiryHeight != r.ExpiryHeight {
		b.removeExpiry(prev.ExpiryHeight)
		b.insertExpiry(r.ExpiryHeight)
	}

	stored := r
	b.records[r.Account] = &stored
}

// Enroll adds account to the active set. It reports false when the account
// was already a member.
func (b *Book) Enroll(account types.Account) bool {
	if b.IsMember(account) {
		return false
	}

	b.members[account] = struct{}{}
	b.order = append(b.order, account)

	var expiry types.Height
	if r, ok := b.records[account]; ok {
		expiry = r.ExpiryHeight
	}
	b.insertExpiry(expiry)
	return true
}

// IsMember reports whether account is in the active set.
func (b *Book) IsMember(account types.Account) bool {
	_, ok := b.members[account]
	return ok
}

// ActiveCount returns how many members have an expiry strictly above now.
func (b *Book) ActiveCount(now types.Height) int {
	idx := sort.Search(len(b.expiries), func(i int) bool {
		return b.expiries[i] > now
	})
	return len(b.expiries) - idx
}

// Records returns copies of the active set's records in enrolment order.
func (b *Book) Records() []Record {
	out := make([]Record, 0, len(b.order))
	for _, account := range b.order {
		if r, ok := b.records[account]; ok {
			out = append(out, *r)
		}
	}
	return out
}

// Len returns the number of stored records, members or not.
func (b *Book) Len() int { return len(b.records) }

func (b *Book) insertExpiry(h types.Height) {
	idx := sort.Search(len(b.expiries), func(i int) bool {
		return b.expiries[i] >= h
	})
	b.expiries = append(b.expiries, 0)
	copy(b.expiries[idx+1:], b.expiries[idx:])
	b.expiries[idx] = h
}

func (b *Book) removeExpiry(h types.Height) {
	idx := sort.Search(len(b.expiries), func(i int) bool {
		return b.expiries[i] >= h
	})
	if idx < len(b.expiries) && b.expiries[idx] == h {
		b.expiries = append(b.expiries[:idx], b.expiries[idx+1:]...)
	}
}

package types

import "strings"

// Account is an opaque ledger identity (an SS58 or hex address). The escrow
// only compares accounts for equality; it never interprets them.
type Account string

// NoAccount is the zero identity.
const NoAccount Account = ""

// IsZero reports whether the account is unset.
func (a Account) IsZero() bool { return strings.TrimSpace(string(a)) == "" }

// String implements fmt.Stringer.
func (a Account) String() string { return string(a) }

// Short returns an abbreviated form for logs and tables.
func (a Account) Short() string {
	s := string(a)
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// Package types provides the scalar types shared across the escrow.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Balance is an amount of the ledger's native token in its smallest unit.
// All arithmetic is integer-only and saturating: overflow clamps to
// MaxBalance and underflow clamps to zero, nothing ever wraps.
type Balance uint64

// MaxBalance is the largest representable amount.
const MaxBalance Balance = math.MaxUint64

// DefaultDecimals is the number of fractional digits of the native token.
const DefaultDecimals = 18

// Add returns b+other, clamped to MaxBalance.
func (b Balance) Add(other Balance) Balance {
	sum, carry := bits.Add64(uint64(b), uint64(other), 0)
	if carry != 0 {
		return MaxBalance
	}
	return Balance(sum)
}

// Sub returns b-other, clamped to zero.
func (b Balance) Sub(other Balance) Balance {
	if other > b {
		return 0
	}
	return b - other
}

// Mul returns b*n, clamped to MaxBalance.
func (b Balance) Mul(n uint64) Balance {
	hi, lo := bits.Mul64(uint64(b), n)
	if hi != 0 {
		return MaxBalance
	}
	return Balance(lo)
}

// Div returns the whole number of times divisor fits into b.
// Dividing by zero yields zero rather than panicking.
func (b Balance) Div(divisor Balance) uint64 {
	if divisor == 0 {
		return 0
	}
	return uint64(b / divisor)
}

// IsZero reports whether the amount is zero.
func (b Balance) IsZero() bool { return b == 0 }

// String returns the amount in smallest units.
func (b Balance) String() string { return strconv.FormatUint(uint64(b), 10) }

// Format renders the amount in major units with the given number of
// fractional digits, truncated to four places like a wallet display.
//
//	Balance(1_500_000_000_000_000_000).Format(18) == "1.5000"
func (b Balance) Format(decimals int) string {
	raw := b.String()
	if decimals <= 0 {
		return raw
	}

	if len(raw) <= decimals {
		raw = strings.Repeat("0", decimals-len(raw)+1) + raw
	}

	whole := raw[:len(raw)-decimals]
	frac := raw[len(raw)-decimals:]
	if len(frac) > 4 {
		frac = frac[:4]
	}
	return whole + "." + frac
}

// ParseBalance parses a decimal amount in smallest units. Thousands
// separators (",", "_") are ignored.
func ParseBalance(s string) (Balance, error) {
	clean := strings.NewReplacer(",", "", "_", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseUint(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("types: parse balance %q: %w", s, err)
	}
	return Balance(v), nil
}

// MarshalJSON encodes the balance as a decimal string so that values above
// 2^53 survive JavaScript consumers.
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("types: decode balance: %w", err)
		}
		*b = Balance(n)
		return nil
	}

	v, err := ParseBalance(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

package types

import (
	"math"
	"time"
)

// Height is a ledger block height. Durations such as the period length are
// expressed in the same unit.
type Height uint32

// MaxHeight is the largest representable height.
const MaxHeight Height = math.MaxUint32

// Add returns h+other, clamped to MaxHeight.
func (h Height) Add(other Height) Height {
	sum := uint64(h) + uint64(other)
	if sum > uint64(MaxHeight) {
		return MaxHeight
	}
	return Height(sum)
}

// Mul returns h*n, clamped to MaxHeight.
func (h Height) Mul(n uint32) Height {
	prod := uint64(h) * uint64(n)
	if prod > uint64(MaxHeight) {
		return MaxHeight
	}
	return Height(prod)
}

// Max returns the larger of h and other.
func (h Height) Max(other Height) Height {
	if other > h {
		return other
	}
	return h
}

// Until returns the number of heights from h up to target, or zero when
// target is not ahead of h.
func (h Height) Until(target Height) Height {
	if target <= h {
		return 0
	}
	return target - h
}

// Duration converts a span of heights into wall-clock time given the
// average block time, clamped to the largest representable duration.
func (h Height) Duration(blockTime time.Duration) time.Duration {
	if blockTime <= 0 {
		return 0
	}
	if uint64(h) > uint64(math.MaxInt64/blockTime) {
		return math.MaxInt64
	}
	return time.Duration(h) * blockTime
}

package types

import (
	"math"
	"testing"
	"time"
)

func TestHeightArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Height
		expected Height
	}{
		{"Add", func() Height { return Height(10).Add(5) }, 15},
		{"Add saturates", func() Height { return MaxHeight.Add(1) }, MaxHeight},
		{"Mul", func() Height { return Height(5).Mul(3) }, 15},
		{"Mul saturates", func() Height { return Height(1 << 20).Mul(1 << 20) }, MaxHeight},
		{"Max keeps larger", func() Height { return Height(20).Max(10) }, 20},
		{"Max takes other", func() Height { return Height(10).Max(20) }, 20},
		{"Until ahead", func() Height { return Height(10).Until(15) }, 5},
		{"Until behind", func() Height { return Height(15).Until(10) }, 0},
		{"Until equal", func() Height { return Height(15).Until(15) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.expected {
				t.Errorf("got %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestHeightDuration(t *testing.T) {
	if got := Height(5).Duration(12 * time.Second); got != time.Minute {
		t.Errorf("got %s, want 1m", got)
	}
	if got := Height(0).Duration(12 * time.Second); got != 0 {
		t.Errorf("got %s, want 0", got)
	}
	if got := Height(1 << 30).Duration(time.Second); got != (1<<30)*time.Second {
		t.Errorf("got %s, want %s", got, (1<<30)*time.Second)
	}
	if got := MaxHeight.Duration(12 * time.Second); got != time.Duration(math.MaxInt64) {
		t.Errorf("got %d, want clamp to %d", got, int64(math.MaxInt64))
	}
	if got := Height(5).Duration(0); got != 0 {
		t.Errorf("got %s, want 0 for zero block time", got)
	}
}

package escrow_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/store/memory"
)

// TestDocumentationExamples verifies that the package documentation example
// behaves as described.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		ctx := context.Background()
		ledger := sim.New(0)

		e := escrow.New(memory.New(), ledger,
			escrow.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer e.Stop()

		if err := e.Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", ""); err != nil {
			t.Fatal(err)
		}

		var receipt escrow.Receipt
		err := ledger.Invoke(ctx, "alice", 300, func(ctx context.Context) error {
			var err error
			receipt, err = e.Subscribe(ctx)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}

		if receipt.Periods != 3 || receipt.NewExpiry != 15 {
			t.Errorf("receipt = %+v, want 3 periods to height 15", receipt)
		}
	})

	t.Run("ExpiryFormula", func(t *testing.T) {
		ctx := context.Background()
		ledger := sim.New(0)
		e := escrow.New(memory.New(), ledger,
			escrow.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		if err := e.Construct(sim.As(ctx, "creator"), 100, 5, "", ""); err != nil {
			t.Fatal(err)
		}

		ledger.SetHeight(20)
		q, err := e.Quote(ctx, "alice", escrow.Bronze, 250)
		if err != nil {
			t.Fatal(err)
		}
		if q.Periods != 2 || q.NewExpiry != 30 {
			t.Errorf("quote = %+v, want 2 periods to height 30", q)
		}
	})
}

// Package escrow provides a recurring-access escrow: subscribers pay a
// creator in the ledger's native unit and receive access up to an expiry
// height proportional to what they paid, while funds stay held until the
// creator withdraws them.
//
// Escrow is designed as a library, not a service. The host ledger is
// supplied through the chain.Env interface (caller, height, attached amount,
// held balance and transfer); every accepted transition is written to a
// journal store and replayed on Start.
//
//   - Three pricing tiers, initialised to base, 2×base and 3×base
//   - Whole-period purchase with saturating expiry arithmetic
//   - A monotonic access-pass token for every distinct subscriber
//   - Lifetime analytics with an active count derived from the current height
//   - Pluggable notifications for audit trails and metrics
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/escrow"
//	    "github.com/xraph/escrow/chain/sim"
//	    "github.com/xraph/escrow/store/memory"
//	)
//
//	ledger := sim.New(0)
//	e := escrow.New(memory.New(), ledger)
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
//	// The caller of Construct becomes the creator.
//	err := e.Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", "")
//
//	// Alice pays 300 for three Bronze periods.
//	err = ledger.Invoke(ctx, "alice", 300, func(ctx context.Context) error {
//	    receipt, err := e.Subscribe(ctx)
//	    ...
//	})
//
// # Expiry
//
// A payment of amount at a tier priced p buys floor(amount/p) periods; any
// remainder is kept as revenue. The new expiry is
//
//	max(current expiry, current height) + periods × period length
//
// so renewing early extends the existing horizon and renewing late starts
// from the present. All arithmetic clamps at the type's maximum.
//
// # Errors
//
// Failures are returned as sentinel errors. KindOf maps any of them to the
// closed Kind enumeration for integrations that must not depend on message
// text. A failed call leaves no state behind.
//
// # TypeID
//
// Journal entries and escrow instances use TypeID identifiers:
//
//	jrnl_01h2xcejqtf2nbrexx3vqjhp41  // Journal entry
//	esc_01h455vb4pex5vsknk084sn02q   // Escrow instance
//
// Access-pass tokens are plain integers starting at 1.
package escrow

package audithook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow"
	audithook "github.com/xraph/escrow/audit_hook"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/event"
	"github.com/xraph/escrow/store/memory"
	"github.com/xraph/escrow/tier"
)

type capture struct {
	mu     sync.Mutex
	events []*audithook.AuditEvent
}

func (c *capture) Record(_ context.Context, ev *audithook.AuditEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capture) actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Action
	}
	return out
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSubscribedEventMetadata(t *testing.T) {
	rec := &capture{}
	ext := audithook.New(rec)

	err := ext.OnSubscribed(context.Background(), event.Subscribed{
		Subscriber: "alice",
		Periods:    3,
		NewExpiry:  15,
		Amount:     300,
		Tier:       tier.Silver,
	})
	require.NoError(t, err)
	require.Len(t, rec.events, 1)

	ev := rec.events[0]
	assert.True(t, strings.HasPrefix(ev.ID, "aud_"))
	assert.Equal(t, audithook.ActionSubscriptionPaid, ev.Action)
	assert.Equal(t, audithook.ResourceSubscription, ev.Resource)
	assert.Equal(t, "alice", ev.ResourceID)
	assert.Equal(t, audithook.OutcomeSuccess, ev.Outcome)
	assert.Equal(t, "silver", ev.Metadata["tier"])
	assert.Equal(t, "300", ev.Metadata["amount"])
	assert.Equal(t, uint32(3), ev.Metadata["periods"])
}

func TestRejectedCarriesReason(t *testing.T) {
	rec := &capture{}
	ext := audithook.New(rec)

	err := ext.OnSubscriptionRejected(context.Background(), event.Rejected{
		Payer:      "bob",
		Subscriber: "bob",
		Tier:       tier.Gold,
		Amount:     1,
		Err:        escrow.ErrInsufficientFunds,
	})
	require.NoError(t, err)
	require.Len(t, rec.events, 1)

	ev := rec.events[0]
	assert.Equal(t, audithook.OutcomeFailure, ev.Outcome)
	assert.Equal(t, audithook.SeverityError, ev.Severity)
	assert.Equal(t, escrow.ErrInsufficientFunds.Error(), ev.Reason)
	assert.Equal(t, ev.Reason, ev.Metadata["error"])
}

func TestEnabledActionsFilter(t *testing.T) {
	rec := &capture{}
	ext := audithook.New(rec, audithook.WithEnabledActions(audithook.ActionFundsWithdrawn))
	ctx := context.Background()

	require.NoError(t, ext.OnSubscribed(ctx, event.Subscribed{Subscriber: "alice"}))
	require.NoError(t, ext.OnWithdrawn(ctx, event.Withdrawn{To: "creator", Amount: 10}))

	assert.Equal(t, []string{audithook.ActionFundsWithdrawn}, rec.actions())
}

func TestDisabledActionsFilter(t *testing.T) {
	rec := &capture{}
	ext := audithook.New(rec, audithook.WithDisabledActions(audithook.ActionTokenIssued))
	ctx := context.Background()

	require.NoError(t, ext.OnTokenIssued(ctx, event.TokenIssued{Owner: "alice", TokenID: 1}))
	require.NoError(t, ext.OnAutoRenewalToggled(ctx, event.AutoRenewalToggled{Subscriber: "alice", Enabled: true}))

	assert.Equal(t, []string{audithook.ActionAutoRenewalToggled}, rec.actions())
}

func TestRecorderFailureIsSwallowed(t *testing.T) {
	ext := audithook.New(audithook.RecorderFunc(func(context.Context, *audithook.AuditEvent) error {
		return errors.New("backend down")
	}), audithook.WithLogger(quiet()))

	err := ext.OnParamsUpdated(context.Background(), event.ParamsUpdated{BasePrice: 5, PeriodLength: 2})
	assert.NoError(t, err)
}

func TestEscrowEmitsAuditTrail(t *testing.T) {
	ctx := context.Background()
	rec := &capture{}
	chain := sim.New(0)

	e := escrow.New(memory.New(), chain,
		escrow.WithLogger(quiet()),
		escrow.WithPlugin(audithook.New(rec)),
	)
	require.NoError(t, e.Start(ctx))
	require.NoError(t, e.Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", ""))

	err := chain.Invoke(ctx, "bob", 200, func(ctx context.Context) error {
		_, err := e.GiftSubscription(ctx, "carol", tier.Bronze)
		return err
	})
	require.NoError(t, err)

	err = chain.Invoke(ctx, "dave", 10, func(ctx context.Context) error {
		_, err := e.Subscribe(ctx)
		return err
	})
	require.ErrorIs(t, err, escrow.ErrInsufficientFunds)

	_, err = e.Withdraw(sim.As(ctx, "creator"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		audithook.ActionEscrowConstructed,
		audithook.ActionTokenIssued,
		audithook.ActionSubscriptionPaid,
		audithook.ActionSubscriptionGifted,
		audithook.ActionSubscriptionRejected,
		audithook.ActionFundsWithdrawn,
	}, rec.actions())
}

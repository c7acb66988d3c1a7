package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow/event"
)

type recorder struct {
	name string
	mu   sync.Mutex
	seen []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnSubscribed(_ context.Context, ev event.Subscribed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, "subscribed:"+ev.Subscriber.String())
	return nil
}

func (r *recorder) OnTokenIssued(_ context.Context, ev event.TokenIssued) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, "token:"+ev.Owner.String())
	return errors.New("ignored")
}

type slow struct{}

func (slow) Name() string { return "slow" }

func (slow) OnWithdrawn(ctx context.Context, _ event.Withdrawn) error {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
	}
	return nil
}

func quietRegistry() *Registry {
	return NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := quietRegistry()
	require.NoError(t, r.Register(&recorder{name: "a"}))
	require.Error(t, r.Register(&recorder{name: "a"}))
	assert.Equal(t, 1, r.Count())
	assert.NotNil(t, r.Get("a"))
	assert.Nil(t, r.Get("b"))
}

func TestDispatchOnlyToImplementers(t *testing.T) {
	r := quietRegistry()
	rec := &recorder{name: "rec"}
	require.NoError(t, r.Register(rec))
	require.NoError(t, r.Register(slow{}))

	ctx := context.Background()
	r.EmitTokenIssued(ctx, event.TokenIssued{Owner: "alice", TokenID: 1})
	r.EmitSubscribed(ctx, event.Subscribed{Subscriber: "alice"})
	r.EmitGifted(ctx, event.Gifted{Payer: "bob", Recipient: "alice"})

	assert.Equal(t, []string{"token:alice", "subscribed:alice"}, rec.seen)
	assert.ElementsMatch(t, []string{"OnSubscribed", "OnTokenIssued"}, implementedHooks(rec))
}

func TestHookTimeout(t *testing.T) {
	r := quietRegistry().WithTimeout(10 * time.Millisecond)
	require.NoError(t, r.Register(slow{}))

	start := time.Now()
	r.EmitWithdrawn(context.Background(), event.Withdrawn{To: "creator", Amount: 1})
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/escrow/event"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onConstructed          []OnConstructed
	onSubscribed           []OnSubscribed
	onGifted               []OnGifted
	onTokenIssued          []OnTokenIssued
	onSubscriptionRejected []OnSubscriptionRejected
	onWithdrawn            []OnWithdrawn
	onParamsUpdated        []OnParamsUpdated
	onTierPriceUpdated     []OnTierPriceUpdated
	onAutoRenewalToggled   []OnAutoRenewalToggled
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout. Non-positive values restore the
// default.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d <= 0 {
		d = DefaultTimeout
	}
	r.timeout = d
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnConstructed); ok {
		r.onConstructed = append(r.onConstructed, v)
	}
	if v, ok := p.(OnSubscribed); ok {
		r.onSubscribed = append(r.onSubscribed, v)
	}
	if v, ok := p.(OnGifted); ok {
		r.onGifted = append(r.onGifted, v)
	}
	if v, ok := p.(OnTokenIssued); ok {
		r.onTokenIssued = append(r.onTokenIssued, v)
	}
	if v, ok := p.(OnSubscriptionRejected); ok {
		r.onSubscriptionRejected = append(r.onSubscriptionRejected, v)
	}
	if v, ok := p.(OnWithdrawn); ok {
		r.onWithdrawn = append(r.onWithdrawn, v)
	}
	if v, ok := p.(OnParamsUpdated); ok {
		r.onParamsUpdated = append(r.onParamsUpdated, v)
	}
	if v, ok := p.(OnTierPriceUpdated); ok {
		r.onTierPriceUpdated = append(r.onTierPriceUpdated, v)
	}
	if v, ok := p.(OnAutoRenewalToggled); ok {
		r.onAutoRenewalToggled = append(r.onAutoRenewalToggled, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedHooks(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeOf((*OnInit)(nil)).Elem()},
	{"OnShutdown", reflect.TypeOf((*OnShutdown)(nil)).Elem()},
	{"OnConstructed", reflect.TypeOf((*OnConstructed)(nil)).Elem()},
	{"OnSubscribed", reflect.TypeOf((*OnSubscribed)(nil)).Elem()},
	{"OnGifted", reflect.TypeOf((*OnGifted)(nil)).Elem()},
	{"OnTokenIssued", reflect.TypeOf((*OnTokenIssued)(nil)).Elem()},
	{"OnSubscriptionRejected", reflect.TypeOf((*OnSubscriptionRejected)(nil)).Elem()},
	{"OnWithdrawn", reflect.TypeOf((*OnWithdrawn)(nil)).Elem()},
	{"OnParamsUpdated", reflect.TypeOf((*OnParamsUpdated)(nil)).Elem()},
	{"OnTierPriceUpdated", reflect.TypeOf((*OnTierPriceUpdated)(nil)).Elem()},
	{"OnAutoRenewalToggled", reflect.TypeOf((*OnAutoRenewalToggled)(nil)).Elem()},
}

// implementedHooks returns the names of the hooks p implements.
func implementedHooks(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, escrow interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	dispatch(ctx, r, "OnInit", plugins, func(p OnInit) error {
		return p.OnInit(ctx, escrow)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	dispatch(ctx, r, "OnShutdown", plugins, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitConstructed emits a construction event.
func (r *Registry) EmitConstructed(ctx context.Context, ev event.Constructed) {
	r.mu.RLock()
	plugins := r.onConstructed
	r.mu.RUnlock()

	dispatch(ctx, r, "OnConstructed", plugins, func(p OnConstructed) error {
		return p.OnConstructed(ctx, ev)
	})
}

// EmitSubscribed emits a subscription-accepted event.
func (r *Registry) EmitSubscribed(ctx context.Context, ev event.Subscribed) {
	r.mu.RLock()
	plugins := r.onSubscribed
	r.mu.RUnlock()

	dispatch(ctx, r, "OnSubscribed", plugins, func(p OnSubscribed) error {
		return p.OnSubscribed(ctx, ev)
	})
}

// EmitGifted emits a gift-accepted event.
func (r *Registry) EmitGifted(ctx context.Context, ev event.Gifted) {
	r.mu.RLock()
	plugins := r.onGifted
	r.mu.RUnlock()

	dispatch(ctx, r, "OnGifted", plugins, func(p OnGifted) error {
		return p.OnGifted(ctx, ev)
	})
}

// EmitTokenIssued emits a token-issued event.
func (r *Registry) EmitTokenIssued(ctx context.Context, ev event.TokenIssued) {
	r.mu.RLock()
	plugins := r.onTokenIssued
	r.mu.RUnlock()

	dispatch(ctx, r, "OnTokenIssued", plugins, func(p OnTokenIssued) error {
		return p.OnTokenIssued(ctx, ev)
	})
}

// EmitSubscriptionRejected emits a rejected-payment event.
func (r *Registry) EmitSubscriptionRejected(ctx context.Context, ev event.Rejected) {
	r.mu.RLock()
	plugins := r.onSubscriptionRejected
	r.mu.RUnlock()

	dispatch(ctx, r, "OnSubscriptionRejected", plugins, func(p OnSubscriptionRejected) error {
		return p.OnSubscriptionRejected(ctx, ev)
	})
}

// EmitWithdrawn emits a withdrawal event.
func (r *Registry) EmitWithdrawn(ctx context.Context, ev event.Withdrawn) {
	r.mu.RLock()
	plugins := r.onWithdrawn
	r.mu.RUnlock()

	dispatch(ctx, r, "OnWithdrawn", plugins, func(p OnWithdrawn) error {
		return p.OnWithdrawn(ctx, ev)
	})
}

// EmitParamsUpdated emits a params-updated event.
func (r *Registry) EmitParamsUpdated(ctx context.Context, ev event.ParamsUpdated) {
	r.mu.RLock()
	plugins := r.onParamsUpdated
	r.mu.RUnlock()

	dispatch(ctx, r, "OnParamsUpdated", plugins, func(p OnParamsUpdated) error {
		return p.OnParamsUpdated(ctx, ev)
	})
}

// EmitTierPriceUpdated emits a tier-price-updated event.
func (r *Registry) EmitTierPriceUpdated(ctx context.Context, ev event.TierPriceUpdated) {
	r.mu.RLock()
	plugins := r.onTierPriceUpdated
	r.mu.RUnlock()

	dispatch(ctx, r, "OnTierPriceUpdated", plugins, func(p OnTierPriceUpdated) error {
		return p.OnTierPriceUpdated(ctx, ev)
	})
}

// EmitAutoRenewalToggled emits an auto-renewal-toggled event.
func (r *Registry) EmitAutoRenewalToggled(ctx context.Context, ev event.AutoRenewalToggled) {
	r.mu.RLock()
	plugins := r.onAutoRenewalToggled
	r.mu.RUnlock()

	dispatch(ctx, r, "OnAutoRenewalToggled", plugins, func(p OnAutoRenewalToggled) error {
		return p.OnAutoRenewalToggled(ctx, ev)
	})
}

// dispatch calls fn for each plugin in registration order, logging failures.
func dispatch[T Plugin](ctx context.Context, r *Registry, hook string, plugins []T, fn func(T) error) {
	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return fn(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the escrow.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}

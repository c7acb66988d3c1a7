// Package plugin provides the notification side-channel of the escrow.
// Plugins hook into lifecycle events and committed transitions; they can
// observe but never veto or alter a transition.
package plugin

import (
	"context"

	"github.com/xraph/escrow/event"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the escrow starts, after its journal is replayed.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, escrow interface{}) error
}

// OnShutdown is called when the escrow is stopping.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// OnConstructed is called once the creator has configured the escrow.
type OnConstructed interface {
	Plugin
	OnConstructed(ctx context.Context, ev event.Constructed) error
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnSubscribed is called for every accepted payment.
type OnSubscribed interface {
	Plugin
	OnSubscribed(ctx context.Context, ev event.Subscribed) error
}

// OnGifted is called after OnSubscribed when the payment was a gift.
type OnGifted interface {
	Plugin
	OnGifted(ctx context.Context, ev event.Gifted) error
}

// OnTokenIssued is called when an account receives its access pass.
type OnTokenIssued interface {
	Plugin
	OnTokenIssued(ctx context.Context, ev event.TokenIssued) error
}

// OnSubscriptionRejected is called when a payment fails validation.
type OnSubscriptionRejected interface {
	Plugin
	OnSubscriptionRejected(ctx context.Context, ev event.Rejected) error
}

// ──────────────────────────────────────────────────
// Creator and account hooks
// ──────────────────────────────────────────────────

// OnWithdrawn is called after the held balance moved to the creator.
type OnWithdrawn interface {
	Plugin
	OnWithdrawn(ctx context.Context, ev event.Withdrawn) error
}

// OnParamsUpdated is called when base price or period length change.
type OnParamsUpdated interface {
	Plugin
	OnParamsUpdated(ctx context.Context, ev event.ParamsUpdated) error
}

// OnTierPriceUpdated is called when one tier is repriced.
type OnTierPriceUpdated interface {
	Plugin
	OnTierPriceUpdated(ctx context.Context, ev event.TierPriceUpdated) error
}

// OnAutoRenewalToggled is called when an account sets its renewal flag.
type OnAutoRenewalToggled interface {
	Plugin
	OnAutoRenewalToggled(ctx context.Context, ev event.AutoRenewalToggled) error
}

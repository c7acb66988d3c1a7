// Package observability provides a metrics extension for the escrow that
// records event counts through a pluggable MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/escrow/event"
	"github.com/xraph/escrow/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnConstructed          = (*MetricsExtension)(nil)
	_ plugin.OnSubscribed           = (*MetricsExtension)(nil)
	_ plugin.OnGifted               = (*MetricsExtension)(nil)
	_ plugin.OnTokenIssued          = (*MetricsExtension)(nil)
	_ plugin.OnSubscriptionRejected = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawn            = (*MetricsExtension)(nil)
	_ plugin.OnParamsUpdated        = (*MetricsExtension)(nil)
	_ plugin.OnTierPriceUpdated     = (*MetricsExtension)(nil)
	_ plugin.OnAutoRenewalToggled   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records escrow-wide metrics.
// Register it as an escrow plugin to track subscription and revenue flow.
type MetricsExtension struct {
	factory MetricFactory

	// Creator metrics
	Constructed      Counter
	ParamsUpdated    Counter
	TierPriceUpdated Counter
	Withdrawals      Counter
	WithdrawnAmount  Counter
	WithdrawalSizes  Histogram

	// Subscription metrics
	Subscriptions     Counter
	Gifts             Counter
	Rejections        Counter
	TokensIssued      Counter
	Revenue           Counter
	PeriodsPurchased  Histogram
	AutoRenewalToggle Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions, or NewPrometheusFactory standalone.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		Constructed:      factory.Counter("escrow.constructed"),
		ParamsUpdated:    factory.Counter("escrow.params.updated"),
		TierPriceUpdated: factory.Counter("escrow.tier_price.updated"),
		Withdrawals:      factory.Counter("escrow.withdrawals"),
		WithdrawnAmount:  factory.Counter("escrow.withdrawn.amount"),
		WithdrawalSizes:  factory.Histogram("escrow.withdrawal.size"),

		Subscriptions:     factory.Counter("escrow.subscriptions"),
		Gifts:             factory.Counter("escrow.gifts"),
		Rejections:        factory.Counter("escrow.rejections"),
		TokensIssued:      factory.Counter("escrow.tokens_issued"),
		Revenue:           factory.Counter("escrow.revenue"),
		PeriodsPurchased:  factory.Histogram("escrow.periods.purchased"),
		AutoRenewalToggle: factory.Counter("escrow.auto_renewal.toggled"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// ──────────────────────────────────────────────────
// Creator hooks
// ──────────────────────────────────────────────────

// OnConstructed implements plugin.OnConstructed.
func (m *MetricsExtension) OnConstructed(_ context.Context, _ event.Constructed) error {
	m.Constructed.Inc()
	return nil
}

// OnParamsUpdated implements plugin.OnParamsUpdated.
func (m *MetricsExtension) OnParamsUpdated(_ context.Context, _ event.ParamsUpdated) error {
	m.ParamsUpdated.Inc()
	return nil
}

// OnTierPriceUpdated implements plugin.OnTierPriceUpdated.
func (m *MetricsExtension) OnTierPriceUpdated(_ context.Context, _ event.TierPriceUpdated) error {
	m.TierPriceUpdated.Inc()
	return nil
}

// OnWithdrawn implements plugin.OnWithdrawn.
func (m *MetricsExtension) OnWithdrawn(_ context.Context, ev event.Withdrawn) error {
	amount := float64(ev.Amount)
	m.Withdrawals.Inc()
	m.WithdrawnAmount.Add(amount)
	m.WithdrawalSizes.Observe(amount)
	return nil
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnSubscribed implements plugin.OnSubscribed.
func (m *MetricsExtension) OnSubscribed(_ context.Context, ev event.Subscribed) error {
	m.Subscriptions.Inc()
	m.Revenue.Add(float64(ev.Amount))
	m.PeriodsPurchased.Observe(float64(ev.Periods))
	return nil
}

// OnGifted implements plugin.OnGifted. Revenue is already counted by
// OnSubscribed.
func (m *MetricsExtension) OnGifted(_ context.Context, _ event.Gifted) error {
	m.Gifts.Inc()
	return nil
}

// OnTokenIssued implements plugin.OnTokenIssued.
func (m *MetricsExtension) OnTokenIssued(_ context.Context, _ event.TokenIssued) error {
	m.TokensIssued.Inc()
	return nil
}

// OnSubscriptionRejected implements plugin.OnSubscriptionRejected.
func (m *MetricsExtension) OnSubscriptionRejected(_ context.Context, _ event.Rejected) error {
	m.Rejections.Inc()
	return nil
}

// OnAutoRenewalToggled implements plugin.OnAutoRenewalToggled.
func (m *MetricsExtension) OnAutoRenewalToggled(_ context.Context, _ event.AutoRenewalToggled) error {
	m.AutoRenewalToggle.Inc()
	return nil
}

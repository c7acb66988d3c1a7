// Package audithook bridges escrow events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// any audit product directly. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xraph/escrow/event"
	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnConstructed          = (*Extension)(nil)
	_ plugin.OnSubscribed           = (*Extension)(nil)
	_ plugin.OnGifted               = (*Extension)(nil)
	_ plugin.OnTokenIssued          = (*Extension)(nil)
	_ plugin.OnSubscriptionRejected = (*Extension)(nil)
	_ plugin.OnWithdrawn            = (*Extension)(nil)
	_ plugin.OnParamsUpdated        = (*Extension)(nil)
	_ plugin.OnTierPriceUpdated     = (*Extension)(nil)
	_ plugin.OnAutoRenewalToggled   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges escrow events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Creator hooks
// ──────────────────────────────────────────────────

// OnConstructed implements plugin.OnConstructed.
func (e *Extension) OnConstructed(ctx context.Context, ev event.Constructed) error {
	return e.record(ctx, ActionEscrowConstructed, SeverityInfo, OutcomeSuccess,
		ResourceEscrow, ev.Creator.String(), CategoryConfig, nil,
		"creator", ev.Creator.String(),
		"base_price", ev.BasePrice.String(),
		"period_length", uint32(ev.PeriodLength),
		"name", ev.Name,
	)
}

// OnParamsUpdated implements plugin.OnParamsUpdated.
func (e *Extension) OnParamsUpdated(ctx context.Context, ev event.ParamsUpdated) error {
	return e.record(ctx, ActionParamsUpdated, SeverityInfo, OutcomeSuccess,
		ResourceEscrow, "", CategoryConfig, nil,
		"base_price", ev.BasePrice.String(),
		"period_length", uint32(ev.PeriodLength),
	)
}

// OnTierPriceUpdated implements plugin.OnTierPriceUpdated.
func (e *Extension) OnTierPriceUpdated(ctx context.Context, ev event.TierPriceUpdated) error {
	return e.record(ctx, ActionTierPriceUpdated, SeverityInfo, OutcomeSuccess,
		ResourceEscrow, ev.Tier.String(), CategoryConfig, nil,
		"tier", ev.Tier.String(),
		"price", ev.Price.String(),
	)
}

// OnWithdrawn implements plugin.OnWithdrawn. Withdrawals move real funds,
// so they are recorded at warning severity.
func (e *Extension) OnWithdrawn(ctx context.Context, ev event.Withdrawn) error {
	return e.record(ctx, ActionFundsWithdrawn, SeverityWarning, OutcomeSuccess,
		ResourceEscrow, ev.To.String(), CategoryPayment, nil,
		"to", ev.To.String(),
		"amount", ev.Amount.String(),
	)
}

// ──────────────────────────────────────────────────
// Subscription hooks
// ──────────────────────────────────────────────────

// OnSubscribed implements plugin.OnSubscribed.
func (e *Extension) OnSubscribed(ctx context.Context, ev event.Subscribed) error {
	return e.record(ctx, ActionSubscriptionPaid, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, ev.Subscriber.String(), CategorySubscription, nil,
		"subscriber", ev.Subscriber.String(),
		"tier", ev.Tier.String(),
		"periods", ev.Periods,
		"new_expiry", uint32(ev.NewExpiry),
		"amount", ev.Amount.String(),
	)
}

// OnGifted implements plugin.OnGifted.
func (e *Extension) OnGifted(ctx context.Context, ev event.Gifted) error {
	return e.record(ctx, ActionSubscriptionGifted, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, ev.Recipient.String(), CategorySubscription, nil,
		"payer", ev.Payer.String(),
		"recipient", ev.Recipient.String(),
		"tier", ev.Tier.String(),
		"periods", ev.Periods,
		"amount", ev.Amount.String(),
	)
}

// OnSubscriptionRejected implements plugin.OnSubscriptionRejected.
func (e *Extension) OnSubscriptionRejected(ctx context.Context, ev event.Rejected) error {
	return e.record(ctx, ActionSubscriptionRejected, SeverityError, OutcomeFailure,
		ResourceSubscription, ev.Subscriber.String(), CategoryPayment, ev.Err,
		"payer", ev.Payer.String(),
		"subscriber", ev.Subscriber.String(),
		"tier", ev.Tier.String(),
		"amount", ev.Amount.String(),
	)
}

// OnAutoRenewalToggled implements plugin.OnAutoRenewalToggled.
func (e *Extension) OnAutoRenewalToggled(ctx context.Context, ev event.AutoRenewalToggled) error {
	return e.record(ctx, ActionAutoRenewalToggled, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, ev.Subscriber.String(), CategorySubscription, nil,
		"enabled", ev.Enabled,
	)
}

// OnTokenIssued implements plugin.OnTokenIssued.
func (e *Extension) OnTokenIssued(ctx context.Context, ev event.TokenIssued) error {
	return e.record(ctx, ActionTokenIssued, SeverityInfo, OutcomeSuccess,
		ResourceToken, strconv.FormatUint(ev.TokenID, 10), CategoryAccess, nil,
		"owner", ev.Owner.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged and swallowed.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		ID:         id.NewAuditID().String(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

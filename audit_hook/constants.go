package audithook

// Action constants for audit events.
const (
	// Escrow lifecycle
	ActionEscrowConstructed = "escrow.constructed"
	ActionParamsUpdated     = "escrow.params_updated"
	ActionTierPriceUpdated  = "escrow.tier_price_updated"
	ActionFundsWithdrawn    = "escrow.withdrawn"

	// Subscription actions
	ActionSubscriptionPaid     = "subscription.paid"
	ActionSubscriptionGifted   = "subscription.gifted"
	ActionSubscriptionRejected = "subscription.rejected"
	ActionAutoRenewalToggled   = "subscription.auto_renewal"

	// Access pass actions
	ActionTokenIssued = "token.issued"
)

// Resource constants for audit events.
const (
	ResourceEscrow       = "escrow"
	ResourceSubscription = "subscription"
	ResourceToken        = "token"
)

// Category constants for audit events.
const (
	CategoryConfig       = "config"
	CategorySubscription = "subscription"
	CategoryAccess       = "access"
	CategoryPayment      = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

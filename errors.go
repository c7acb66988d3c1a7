package escrow

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Processing errors
	ErrInvalidTier        = errors.New("escrow: invalid tier")
	ErrTierNotConfigured  = errors.New("escrow: tier not configured")
	ErrInsufficientFunds  = errors.New("escrow: insufficient funds")
	ErrInvalidAccount     = errors.New("escrow: invalid account")
	ErrInvalidPeriod      = errors.New("escrow: period length must be positive")
	ErrUnauthorized       = errors.New("escrow: unauthorized")
	ErrTransferFailed     = errors.New("escrow: transfer failed")
	ErrNotConstructed     = errors.New("escrow: not constructed")
	ErrAlreadyConstructed = errors.New("escrow: already constructed")
	ErrInvalidInput       = errors.New("escrow: invalid input")

	// Lifecycle and store errors
	ErrNotStarted     = errors.New("escrow: not started")
	ErrCommitFailed   = errors.New("escrow: commit failed")
	ErrJournalCorrupt = errors.New("escrow: journal corrupt")
)

// Kind is the closed set of failure categories surfaced to callers.
// Integrations switch on Kind rather than on error text.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidTier
	KindTierNotConfigured
	KindInsufficientFunds
	KindUnauthorized
	KindTransferFailed
	KindInvalidInput
	KindNotConstructed
	KindAlreadyConstructed
	KindUnavailable
	KindCorrupt
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindInvalidTier:        "invalid_tier",
	KindTierNotConfigured:  "tier_not_configured",
	KindInsufficientFunds:  "insufficient_funds",
	KindUnauthorized:       "unauthorized",
	KindTransferFailed:     "transfer_failed",
	KindInvalidInput:       "invalid_input",
	KindNotConstructed:     "not_constructed",
	KindAlreadyConstructed: "already_constructed",
	KindUnavailable:        "unavailable",
	KindCorrupt:            "corrupt",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidTier):
		return KindInvalidTier
	case errors.Is(err, ErrTierNotConfigured):
		return KindTierNotConfigured
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrTransferFailed):
		return KindTransferFailed
	case errors.Is(err, ErrInvalidAccount), errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotConstructed):
		return KindNotConstructed
	case errors.Is(err, ErrAlreadyConstructed):
		return KindAlreadyConstructed
	case errors.Is(err, ErrNotStarted), errors.Is(err, ErrCommitFailed):
		return KindUnavailable
	case errors.Is(err, ErrJournalCorrupt):
		return KindCorrupt
	default:
		return KindUnknown
	}
}

// IsValidationError returns true if the call was rejected on its inputs.
func IsValidationError(err error) bool {
	switch KindOf(err) {
	case KindInvalidTier, KindTierNotConfigured, KindInsufficientFunds, KindInvalidInput:
		return true
	}
	return false
}

// IsRetryable returns true if the error is temporary and the call can be
// repeated unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCommitFailed) ||
		errors.Is(err, ErrNotStarted) ||
		errors.Is(err, ErrTransferFailed)
}

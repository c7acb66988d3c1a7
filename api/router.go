// Package api exposes the escrow's read-only queries over HTTP.
//
// Every route is a GET and nothing here can move funds or change state;
// payments go through the ledger runtime, not this surface.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/analytics"
	"github.com/xraph/escrow/id"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/subscriber"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// Engine is the query side of *escrow.Escrow.
type Engine interface {
	Params(ctx context.Context) (params.Params, error)
	AllTierPrices(ctx context.Context) tier.Prices
	Analytics(ctx context.Context) analytics.Summary
	SubscriptionInfo(ctx context.Context, account types.Account) subscriber.Info
	Subscriber(ctx context.Context, account types.Account) (subscriber.Record, bool)
	TimeRemaining(ctx context.Context, account types.Account) time.Duration
	Quote(ctx context.Context, account types.Account, t tier.Tier, amount types.Balance) (escrow.Receipt, error)
	History(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error)
	Balance(ctx context.Context) (types.Balance, error)
	Height(ctx context.Context) types.Height
}

var _ Engine = (*escrow.Escrow)(nil)

// Page sizes of the history route. A limit of zero or none at all gets
// DefaultHistoryLimit.
const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
)

// Handler serves the query routes.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for unexpected failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// New creates a Handler over engine.
func New(engine Engine, opts ...Option) *Handler {
	h := &Handler{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle returns the router. Mount it under any prefix:
//
//	r := chi.NewRouter()
//	r.Mount("/escrow", api.New(engine).Handle())
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/params", h.getParams)
	r.Get("/tiers", h.getTiers)
	r.Get("/analytics", h.getAnalytics)
	r.Get("/balance", h.getBalance)
	r.Get("/quote", h.getQuote)
	r.Get("/history", h.getHistory)

	r.Route("/subscribers/{account}", func(sr chi.Router) {
		sr.Get("/", h.getSubscriber)
		sr.Get("/active", h.getActive)
	})

	return r
}

// RequestIDHeader carries the request id on both request and response.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// requestID echoes the caller's request id or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, rid)))
	})
}

// RequestIDFrom returns the request id assigned to ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

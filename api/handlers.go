package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/params"
	"github.com/xraph/escrow/subscriber"
	"github.com/xraph/escrow/tier"
	"github.com/xraph/escrow/types"
)

// errBadRequest marks malformed query parameters.
var errBadRequest = errors.New("api: bad request")

type tiersResponse struct {
	Prices     tier.Prices `json:"prices"`
	Configured []string    `json:"configured"`
}

type balanceResponse struct {
	Balance types.Balance `json:"balance"`
	Height  types.Height  `json:"height"`
}

type subscriberResponse struct {
	Account     types.Account      `json:"account"`
	Info        subscriber.Info    `json:"info"`
	Record      *subscriber.Record `json:"record,omitempty"`
	TierName    string             `json:"tier_name"`
	SecondsLeft int64              `json:"seconds_left"`
}

type quoteResponse struct {
	Account   types.Account `json:"account"`
	Tier      string        `json:"tier"`
	Amount    types.Balance `json:"amount"`
	Periods   uint32        `json:"periods"`
	NewExpiry types.Height  `json:"new_expiry"`
}

type historyResponse struct {
	Entries []*journal.Entry `json:"entries"`
	Count   int              `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (h *Handler) getParams(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Params(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, struct {
		params.Params
		Tiers tier.Prices `json:"tiers"`
	}{p, h.engine.AllTierPrices(r.Context())})
}

func (h *Handler) getTiers(w http.ResponseWriter, r *http.Request) {
	prices := h.engine.AllTierPrices(r.Context())
	resp := tiersResponse{Prices: prices, Configured: []string{}}
	for _, t := range tier.All() {
		if prices.Of(t) != 0 {
			resp.Configured = append(resp.Configured, t.String())
		}
	}
	h.respond(w, http.StatusOK, resp)
}

func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.engine.Analytics(r.Context()))
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.engine.Balance(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, balanceResponse{Balance: bal, Height: h.engine.Height(r.Context())})
}

func (h *Handler) getSubscriber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account := types.Account(chi.URLParam(r, "account"))

	resp := subscriberResponse{
		Account:     account,
		Info:        h.engine.SubscriptionInfo(ctx, account),
		TierName:    tier.Bronze.String(),
		SecondsLeft: int64(h.engine.TimeRemaining(ctx, account).Seconds()),
	}
	if rec, ok := h.engine.Subscriber(ctx, account); ok {
		resp.Record = &rec
		resp.TierName = rec.Tier.String()
	}
	h.respond(w, http.StatusOK, resp)
}

func (h *Handler) getActive(w http.ResponseWriter, r *http.Request) {
	account := types.Account(chi.URLParam(r, "account"))
	info := h.engine.SubscriptionInfo(r.Context(), account)
	h.respond(w, http.StatusOK, map[string]bool{"active": info.Active})
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	account := types.Account(q.Get("account"))
	t := tier.Bronze
	if s := q.Get("tier"); s != "" {
		parsed, err := tier.Parse(s)
		if err != nil {
			h.fail(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		t = parsed
	}
	amount, err := types.ParseBalance(q.Get("amount"))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: amount: %w", errBadRequest, err))
		return
	}

	rc, err := h.engine.Quote(r.Context(), account, t, amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, quoteResponse{
		Account:   account,
		Tier:      t.String(),
		Amount:    amount,
		Periods:   rc.Periods,
		NewExpiry: rc.NewExpiry,
	})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOpts(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entries, err := h.engine.History(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []*journal.Entry{}
	}
	h.respond(w, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})
}

func parseListOpts(r *http.Request) (journal.ListOpts, error) {
	q := r.URL.Query()
	opts := journal.ListOpts{
		Account: types.Account(q.Get("account")),
		Limit:   DefaultHistoryLimit,
	}

	if s := q.Get("kind"); s != "" {
		k := journal.Kind(s)
		if !k.Valid() {
			return opts, fmt.Errorf("%w: unknown kind %q", errBadRequest, s)
		}
		opts.Kind = k
	}

	uints := []struct {
		key string
		dst func(uint64)
	}{
		{"after", func(v uint64) { opts.AfterSeq = v }},
		{"limit", func(v uint64) {
			if v == 0 {
				v = DefaultHistoryLimit
			}
			opts.Limit = int(min(v, MaxHistoryLimit))
		}},
		{"offset", func(v uint64) { opts.Offset = int(min(v, 1<<31-1)) }},
	}
	for _, u := range uints {
		s := q.Get(u.key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %w", errBadRequest, u.key, err)
		}
		u.dst(v)
	}
	return opts, nil
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("api: encode response", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("api: request failed",
			"request_id", RequestIDFrom(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.respond(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// statusOf maps an error to an HTTP status and a stable kind label.
func statusOf(err error) (int, string) {
	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest, "bad_request"
	}

	k := escrow.KindOf(err)
	switch k {
	case escrow.KindInvalidTier, escrow.KindTierNotConfigured,
		escrow.KindInsufficientFunds, escrow.KindInvalidInput:
		return http.StatusUnprocessableEntity, k.String()
	case escrow.KindUnauthorized:
		return http.StatusForbidden, k.String()
	case escrow.KindNotConstructed, escrow.KindAlreadyConstructed:
		return http.StatusConflict, k.String()
	case escrow.KindUnavailable:
		return http.StatusServiceUnavailable, k.String()
	default:
		return http.StatusInternalServerError, k.String()
	}
}

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/api"
	"github.com/xraph/escrow/chain/sim"
	"github.com/xraph/escrow/store/memory"
	"github.com/xraph/escrow/tier"
)

type fixture struct {
	chain  *sim.Ledger
	engine *escrow.Escrow
	srv    *httptest.Server
}

func newFixture(t *testing.T, construct bool) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{chain: sim.New(0)}
	f.engine = escrow.New(memory.New(), f.chain, escrow.WithLogger(logger))
	require.NoError(t, f.engine.Start(ctx))
	if construct {
		require.NoError(t, f.engine.Construct(sim.As(ctx, "creator"), 100, 5, "Creator Direct", "members only"))
	}

	f.srv = httptest.NewServer(api.New(f.engine, api.WithLogger(logger)).Handle())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) subscribe(t *testing.T, who escrow.Account, amount escrow.Balance, tr tier.Tier) {
	t.Helper()
	err := f.chain.Invoke(context.Background(), who, amount, func(ctx context.Context) error {
		_, err := f.engine.SubscribeWithTier(ctx, tr)
		return err
	})
	require.NoError(t, err)
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func TestParamsRequiresConstruction(t *testing.T) {
	f := newFixture(t, false)

	var body errorBody
	status := get(t, f.srv.URL+"/params", &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "not_constructed", body.Kind)
}

func TestParams(t *testing.T) {
	f := newFixture(t, true)

	var body struct {
		Creator      string `json:"creator"`
		BasePrice    string `json:"base_price"`
		PeriodLength uint32 `json:"period_length"`
		Name         string `json:"name"`
		Tiers        struct {
			Gold string `json:"gold"`
		} `json:"tiers"`
	}
	status := get(t, f.srv.URL+"/params", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "creator", body.Creator)
	assert.Equal(t, "100", body.BasePrice)
	assert.Equal(t, uint32(5), body.PeriodLength)
	assert.Equal(t, "Creator Direct", body.Name)
	assert.Equal(t, "300", body.Tiers.Gold)
}

func TestTiersListsConfiguredOnly(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.engine.UpdateTierPrice(sim.As(context.Background(), "creator"), tier.Silver, 0))

	var body struct {
		Configured []string `json:"configured"`
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/tiers", &body))
	assert.Equal(t, []string{"bronze", "gold"}, body.Configured)
}

func TestSubscriberStatus(t *testing.T) {
	f := newFixture(t, true)
	f.subscribe(t, "alice", 600, tier.Silver)

	var body struct {
		Info struct {
			Active bool   `json:"active"`
			Expiry uint32 `json:"expiry"`
		} `json:"info"`
		Record *struct {
			TokenID uint64 `json:"token_id"`
		} `json:"record"`
		TierName    string `json:"tier_name"`
		SecondsLeft int64  `json:"seconds_left"`
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/subscribers/alice", &body))
	assert.True(t, body.Info.Active)
	assert.Equal(t, uint32(15), body.Info.Expiry)
	require.NotNil(t, body.Record)
	assert.Equal(t, uint64(1), body.Record.TokenID)
	assert.Equal(t, "silver", body.TierName)
	assert.Equal(t, int64(15*12), body.SecondsLeft)

	var active map[string]bool
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/subscribers/nobody/active", &active))
	assert.False(t, active["active"])
}

func TestQuote(t *testing.T) {
	f := newFixture(t, true)
	f.chain.SetHeight(20)

	var body struct {
		Periods   uint32 `json:"periods"`
		NewExpiry uint32 `json:"new_expiry"`
		Tier      string `json:"tier"`
	}
	status := get(t, f.srv.URL+"/quote?account=alice&tier=bronze&amount=250", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint32(2), body.Periods)
	assert.Equal(t, uint32(30), body.NewExpiry)
	assert.Equal(t, "bronze", body.Tier)
}

func TestQuoteErrors(t *testing.T) {
	f := newFixture(t, true)

	tests := []struct {
		name   string
		query  string
		status int
		kind   string
	}{
		{"insufficient", "?account=a&amount=10", http.StatusUnprocessableEntity, "insufficient_funds"},
		{"bad tier number", "?account=a&tier=7&amount=1000", http.StatusUnprocessableEntity, "invalid_tier"},
		{"bad tier name", "?account=a&tier=platinum&amount=1000", http.StatusBadRequest, "bad_request"},
		{"bad amount", "?account=a&amount=-1", http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.status, get(t, f.srv.URL+"/quote"+tt.query, &body))
			assert.Equal(t, tt.kind, body.Kind)
		})
	}
}

func TestAnalyticsAndBalance(t *testing.T) {
	f := newFixture(t, true)
	f.subscribe(t, "alice", 300, tier.Bronze)
	f.subscribe(t, "bob", 150, tier.Bronze)

	var summary struct {
		TotalSubscribers uint64 `json:"total_subscribers"`
		TotalRevenue     string `json:"total_revenue"`
		ActiveCount      uint64 `json:"active_count"`
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/analytics", &summary))
	assert.Equal(t, uint64(2), summary.TotalSubscribers)
	assert.Equal(t, "450", summary.TotalRevenue)
	assert.Equal(t, uint64(2), summary.ActiveCount)

	var bal struct {
		Balance string `json:"balance"`
		Height  uint32 `json:"height"`
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/balance", &bal))
	assert.Equal(t, "450", bal.Balance)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, true)
	f.subscribe(t, "alice", 300, tier.Bronze)
	f.subscribe(t, "bob", 100, tier.Bronze)

	var body struct {
		Entries []struct {
			Seq     uint64 `json:"seq"`
			Kind    string `json:"kind"`
			Account string `json:"account"`
		} `json:"entries"`
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/history?kind=subscribed&after=1&limit=1", &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, uint64(2), body.Entries[0].Seq)
	assert.Equal(t, "alice", body.Entries[0].Account)

	var bad errorBody
	assert.Equal(t, http.StatusBadRequest, get(t, f.srv.URL+"/history?kind=refunded", &bad))
	assert.Equal(t, http.StatusBadRequest, get(t, f.srv.URL+"/history?limit=x", &bad))
}

func TestHistoryLimitIsBounded(t *testing.T) {
	f := newFixture(t, true)
	for range api.DefaultHistoryLimit + 5 {
		f.subscribe(t, "alice", 100, tier.Bronze)
	}

	var body struct {
		Count int `json:"count"`
	}
	for _, q := range []string{"", "?limit=0"} {
		require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/history"+q, &body))
		assert.Equal(t, api.DefaultHistoryLimit, body.Count, q)
	}
	require.Equal(t, http.StatusOK, get(t, f.srv.URL+"/history?limit=1000", &body))
	assert.Equal(t, api.DefaultHistoryLimit+6, body.Count)
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t, true)

	resp, err := http.Get(f.srv.URL + "/tiers")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Regexp(t, `^req_`, resp.Header.Get(api.RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/tiers", nil)
	require.NoError(t, err)
	req.Header.Set(api.RequestIDHeader, "trace-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-42", resp.Header.Get(api.RequestIDHeader))
}

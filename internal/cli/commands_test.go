package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScript = `
height: 0
steps:
  - {as: creator, op: construct, price: "100", period: 5, name: Creator Direct}
  - {as: alice, op: subscribe, amount: "300"}
  - {as: bob, op: gift, to: carol, tier: silver, amount: "400"}
  - {as: dave, op: subscribe, amount: "50", expect: insufficient_funds}
  - {as: eve, op: subscribe, tier: "7", amount: "1000", expect: invalid_tier}
  - {as: mallory, op: withdraw, expect: unauthorized}
  - {op: advance, blocks: 12}
  - {as: alice, op: auto_renewal, enabled: true}
  - {as: creator, op: withdraw}
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateReportsState(t *testing.T) {
	script := writeFile(t, "demo.yaml", demoScript)

	out, err := runCLI(t, "simulate", script, "--history")
	require.NoError(t, err)

	assert.Contains(t, out, "periods=3 expiry=15")
	assert.Contains(t, out, "periods=2 expiry=10")
	assert.Contains(t, out, "error insufficient_funds")
	assert.Contains(t, out, "amount=700")
	assert.Contains(t, out, "subscribers  2 (1 active)")
	assert.Contains(t, out, "revenue      700")
	assert.Contains(t, out, "held         0")
	assert.Contains(t, out, "auto_renewal_set")
}

func TestSimulateFailsOnUnmetExpectation(t *testing.T) {
	script := writeFile(t, "bad.yaml", `
steps:
  - {as: creator, op: construct, price: "100", period: 5}
  - {as: alice, op: subscribe, amount: "500", expect: insufficient_funds}
`)
	_, err := runCLI(t, "simulate", script)
	require.ErrorIs(t, err, ErrExpectation)
	assert.ErrorContains(t, err, "step 2")
}

func TestSimulateUnknownOp(t *testing.T) {
	script := writeFile(t, "bad.yaml", "steps:\n  - {op: refund}\n")
	_, err := runCLI(t, "simulate", script)
	assert.ErrorContains(t, err, "unknown op")
}

func TestInspectReplaysBoltJournal(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.db")
	script := writeFile(t, "demo.yaml", demoScript)

	_, err := runCLI(t, "simulate", script, "--journal", journal)
	require.NoError(t, err)

	out, err := runCLI(t, "inspect", "--journal", journal, "--height", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "name         Creator Direct")
	assert.Contains(t, out, "subscribers  2 (2 active)")
	assert.Contains(t, out, "withdrawn    700")

	lines := strings.Split(out, "\n")
	var alice string
	for _, l := range lines {
		if strings.HasPrefix(l, "alice") {
			alice = l
		}
	}
	require.NotEmpty(t, alice)
	assert.Regexp(t, `^alice\s+1\s+bronze\s+15\s+true\s+true$`, alice)
}

func TestInspectUnconstructed(t *testing.T) {
	out, err := runCLI(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "escrow not constructed")
}

func TestServeHandler(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	logger := cfg.Logger(io.Discard)
	reg := prometheus.NewRegistry()

	rt, err := start(ctx, cfg, logger, servePlugins(reg, logger)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.stop() })

	sc := &Script{Steps: []Step{
		{As: "creator", Op: OpConstruct, Price: "100", Period: 5},
		{As: "alice", Op: OpSubscribe, Amount: "200"},
	}}
	require.NoError(t, sc.run(ctx, rt, io.Discard))

	srv := httptest.NewServer(newServeHandler(cfg, rt, reg, logger))
	t.Cleanup(srv.Close)

	body := func(path string) string {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, "ok", body("/healthz"))
	assert.Contains(t, body("/escrow/subscribers/alice/active"), `"active":true`)
	metrics := body("/metrics")
	assert.Contains(t, metrics, "escrow_subscriptions_total 1")
	assert.Contains(t, metrics, "escrow_revenue_total 200")
}

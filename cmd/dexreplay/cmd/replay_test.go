package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const tradeScenario = `
tokens:
  - denom: gold
    decimals: 0
  - denom: silver
    decimals: 0
accounts:
  alice: ["1000gold", "10000silver"]
  bob: ["1000gold", "10000silver"]
steps:
  - op: limit_order
    signer: alice
    args: {base: gold, quote: silver, side: sell, amount: "10", price: "3"}
  - op: limit_order
    signer: bob
    args: {base: gold, quote: silver, side: buy, amount: "4", price: "3", ioc: true}
  - op: commit
  - op: create_pool
    signer: alice
    args: {token_a: gold, token_b: silver, amount_a: "500", amount_b: "2000"}
  - op: swap
    signer: bob
    args: {token_in: silver, token_out: gold, amount_in: "100", min_amount_out: "1"}
  - op: otc_open
    signer: bob
    args: {base: gold, quote: silver, amount: "300", price: "40"}
  - op: otc_cancel
    signer: alice
    args: {order_id: last}
    expect_error: not authorized
  - op: cancel_order
    signer: alice
    args: {order_id: 1}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReplayScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, tradeScenario))
	require.NoError(t, err)
	require.Len(t, sc.Steps, 8)

	report, err := Replay(sc, log.NewNopLogger())
	require.NoError(t, err)

	require.Equal(t, 1, report.Failed)
	require.Zero(t, report.Mismatches)
	require.Zero(t, report.RestingOrders)
	require.Equal(t, 1, report.OTCOrders)
	require.Len(t, report.Pools, 1)
	require.Equal(t, "gold/silver", report.Pools[0].Pair)
	require.NotEmpty(t, report.AppHash)
	require.Equal(t, int64(2), report.Height)

	// The IoC buy filled 4 at the maker's price.
	fill := report.Steps[1].Result.(map[string]interface{})
	require.Equal(t, "4", fill["filled_base"])
	require.Equal(t, "12", fill["filled_quote"])
}

func TestReplayIsDeterministic(t *testing.T) {
	path := writeScenario(t, tradeScenario)

	var hashes []string
	for i := 0; i < 2; i++ {
		sc, err := LoadScenario(path)
		require.NoError(t, err)
		report, err := Replay(sc, log.NewNopLogger())
		require.NoError(t, err)
		hashes = append(hashes, report.AppHash)
	}
	require.Equal(t, hashes[0], hashes[1])
}

func TestReplayCountsMismatches(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `
accounts:
  alice: ["1000kcal"]
steps:
  - op: fund
    signer: alice
    args: {coins: ["5soul"]}
    expect_error: insufficient
  - op: swap
    signer: alice
    args: {token_in: kcal, token_out: soul, amount_in: "10"}
    expect_error: slippage
`))
	require.NoError(t, err)

	report, err := Replay(sc, log.NewNopLogger())
	require.NoError(t, err)
	require.Equal(t, 2, report.Mismatches)
	require.Equal(t, 1, report.Failed)
	require.Contains(t, report.Steps[0].Mismatch, "step succeeded")
}

func TestScenarioGenesisRejectsBadParams(t *testing.T) {
	sc := &Scenario{Params: map[string]interface{}{"max_book_depth": 0}}
	_, err := sc.Genesis()
	require.Error(t, err)
}

func TestReplayCommandOutput(t *testing.T) {
	path := writeScenario(t, tradeScenario)

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"replay", path, "-o", "json", "--steps=false", "--log-level", "error"})
	require.NoError(t, root.Execute())

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.NotEmpty(t, report.AppHash)
	require.Empty(t, report.Steps)

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"replay", path, "--steps=false", "--log-level", "error"})
	require.NoError(t, root.Execute())

	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &generic))
	require.Equal(t, report.AppHash, generic["app_hash"])
}

func TestSimulateCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--seed", "3", "--ops", "60", "--blocks", "2", "-o", "json", "--log-level", "error"})
	require.NoError(t, root.Execute())

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	// Two committed blocks, then the final commit at height 3.
	require.Equal(t, int64(3), report.Height)
	require.Zero(t, report.Failed)
}

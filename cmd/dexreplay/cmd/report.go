package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"gopkg.in/yaml.v2"

	testkeeper "github.com/paw-chain/dexchain/testutil/keeper"
)

// StepReport is the outcome of one scenario step.
type StepReport struct {
	Index    int         `json:"index" yaml:"index"`
	Op       string      `json:"op" yaml:"op"`
	Signer   string      `json:"signer,omitempty" yaml:"signer,omitempty"`
	OK       bool        `json:"ok" yaml:"ok"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
	Mismatch string      `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
	Result   interface{} `json:"result,omitempty" yaml:"result,omitempty"`
}

// PoolSummary is the end state of one pool.
type PoolSummary struct {
	Pair          string `json:"pair" yaml:"pair"`
	Reserve0      string `json:"reserve0" yaml:"reserve0"`
	Reserve1      string `json:"reserve1" yaml:"reserve1"`
	Liquidity     string `json:"liquidity" yaml:"liquidity"`
	FeeVault0     string `json:"fee_vault0" yaml:"fee_vault0"`
	FeeVault1     string `json:"fee_vault1" yaml:"fee_vault1"`
	ProtocolFees0 string `json:"protocol_fees0" yaml:"protocol_fees0"`
	ProtocolFees1 string `json:"protocol_fees1" yaml:"protocol_fees1"`
}

// Report is the result of a replay. Two replays of the same scenario produce
// the same AppHash.
type Report struct {
	AppHash       string        `json:"app_hash" yaml:"app_hash"`
	Height        int64         `json:"height" yaml:"height"`
	Failed        int           `json:"failed" yaml:"failed"`
	Mismatches    int           `json:"mismatches" yaml:"mismatches"`
	RestingOrders int           `json:"resting_orders" yaml:"resting_orders"`
	OTCOrders     int           `json:"otc_orders" yaml:"otc_orders"`
	Pools         []PoolSummary `json:"pools" yaml:"pools"`
	Steps         []StepReport  `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Replay runs a scenario against a fresh in-memory chain and commits the final
// block.
func Replay(sc *Scenario, logger log.Logger) (*Report, error) {
	gen, err := sc.Genesis()
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	env, err := testkeeper.NewDexEnv(logger)
	if err != nil {
		return nil, err
	}
	if err := env.Keeper.InitGenesis(env.Ctx, gen); err != nil {
		return nil, fmt.Errorf("init genesis: %w", err)
	}

	rn := newRunner(env)
	if err := rn.fundAccounts(sc.Accounts); err != nil {
		return nil, err
	}

	report := &Report{}
	for i, step := range sc.Steps {
		res, err := rn.execute(step)
		sr := StepReport{Index: i, Op: step.Op, Signer: step.Signer, OK: err == nil}

		switch {
		case err != nil:
			sr.Error = err.Error()
			report.Failed++
			if step.ExpectError != "" && !strings.Contains(sr.Error, step.ExpectError) {
				sr.Mismatch = fmt.Sprintf("expected error containing %q", step.ExpectError)
			}
		case step.ExpectError != "":
			sr.Mismatch = fmt.Sprintf("expected error containing %q, step succeeded", step.ExpectError)
		default:
			if sr.Result, err = toGeneric(res); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
		}
		if sr.Mismatch != "" {
			report.Mismatches++
			logger.Error("scenario expectation not met", "step", i, "op", step.Op, "detail", sr.Mismatch)
		} else {
			logger.Debug("step applied", "step", i, "op", step.Op, "ok", sr.OK)
		}
		report.Steps = append(report.Steps, sr)
	}

	final, err := rn.commit()
	if err != nil {
		return nil, fmt.Errorf("final commit: %w", err)
	}
	report.AppHash = final.AppHash
	report.Height = final.Height

	if err := summarize(env, report); err != nil {
		return nil, err
	}
	return report, nil
}

func summarize(env *testkeeper.DexEnv, report *Report) error {
	pools, err := env.Keeper.GetAllPools(env.Ctx)
	if err != nil {
		return err
	}
	for _, p := range pools {
		report.Pools = append(report.Pools, PoolSummary{
			Pair:          p.Denom0 + "/" + p.Denom1,
			Reserve0:      p.Amount0.String(),
			Reserve1:      p.Amount1.String(),
			Liquidity:     p.TotalLiquidity.String(),
			FeeVault0:     p.FeeVault0.String(),
			FeeVault1:     p.FeeVault1.String(),
			ProtocolFees0: p.ProtocolFees0.String(),
			ProtocolFees1: p.ProtocolFees1.String(),
		})
	}

	orders, err := env.Keeper.GetAllOrders(env.Ctx)
	if err != nil {
		return err
	}
	report.RestingOrders = len(orders)

	otc, err := env.Keeper.GetOTCOrders(env.Ctx)
	if err != nil {
		return err
	}
	report.OTCOrders = len(otc)
	return nil
}

// toGeneric turns a response struct into plain maps through its JSON form so
// the YAML encoder sees the same field names and integer strings.
func toGeneric(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(bz, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteReport encodes v as yaml or json.
func WriteReport(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		bz, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(bz)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

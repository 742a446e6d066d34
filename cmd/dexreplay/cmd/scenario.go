package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	testkeeper "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/simulation"
	"github.com/paw-chain/dexchain/x/dex/types"
)

// Step is one scenario entry: a message, a funding, a block boundary or a
// random simulation burst.
type Step struct {
	Op          string
	Signer      string
	Args        map[string]interface{}
	ExpectError string
}

// Scenario is a replayable sequence of exchange operations.
type Scenario struct {
	Params   map[string]interface{}
	Tokens   []types.TokenInfo
	Accounts map[string][]string
	Steps    []Step
}

// LoadScenario reads a scenario file in any format viper understands (yaml,
// json, toml).
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return scenarioFromViper(v)
}

func scenarioFromViper(v *viper.Viper) (*Scenario, error) {
	sc := &Scenario{
		Params:   v.GetStringMap("params"),
		Accounts: make(map[string][]string),
	}

	for name, coins := range v.GetStringMap("accounts") {
		sc.Accounts[name] = cast.ToStringSlice(coins)
	}

	for i, raw := range cast.ToSlice(v.Get("tokens")) {
		entry, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		decimals, err := cast.ToUint32E(entry["decimals"])
		if err != nil {
			return nil, fmt.Errorf("token %d decimals: %w", i, err)
		}
		sc.Tokens = append(sc.Tokens, types.TokenInfo{
			Denom:    cast.ToString(entry["denom"]),
			Decimals: decimals,
		})
	}

	for i, raw := range cast.ToSlice(v.Get("steps")) {
		entry, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		step := Step{
			Op:          cast.ToString(entry["op"]),
			Signer:      cast.ToString(entry["signer"]),
			Args:        cast.ToStringMap(entry["args"]),
			ExpectError: cast.ToString(entry["expect_error"]),
		}
		if step.Op == "" {
			return nil, fmt.Errorf("step %d: missing op", i)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}

// Genesis builds the dex genesis of the scenario: defaults overlaid with the
// scenario's params and tokens.
func (sc *Scenario) Genesis() (types.GenesisState, error) {
	gen := *types.DefaultGenesis()

	if len(sc.Params) > 0 {
		bz, err := json.Marshal(sc.Params)
		if err != nil {
			return gen, fmt.Errorf("encode params: %w", err)
		}
		if err := json.Unmarshal(bz, &gen.Params); err != nil {
			return gen, fmt.Errorf("decode params: %w", err)
		}
	}

	for _, token := range sc.Tokens {
		replaced := false
		for i := range gen.Tokens {
			if gen.Tokens[i].Denom == token.Denom {
				gen.Tokens[i] = token
				replaced = true
			}
		}
		if !replaced {
			gen.Tokens = append(gen.Tokens, token)
		}
	}
	return gen, gen.Validate()
}

// runner executes scenario steps against one in-memory chain.
type runner struct {
	env       *testkeeper.DexEnv
	ms        types.MsgServer
	lastOrder uint64
}

func newRunner(env *testkeeper.DexEnv) *runner {
	return &runner{
		env: env,
		ms:  keeper.NewMsgServerImpl(*env.Keeper),
	}
}

// address resolves a scenario account name. Names are case-insensitive because
// viper lowercases map keys.
func (rn *runner) address(name string) sdk.AccAddress {
	name = strings.ToLower(name)
	if name == "authority" {
		return rn.env.Authority
	}
	return testkeeper.TestAddress(name)
}

func (rn *runner) signer(step Step) (string, error) {
	if step.Signer == "" {
		return "", fmt.Errorf("%s: missing signer", step.Op)
	}
	return rn.address(step.Signer).String(), nil
}

func argInt(args map[string]interface{}, key string) (math.Int, error) {
	raw, ok := args[key]
	if !ok {
		return math.ZeroInt(), nil
	}
	s := cast.ToString(raw)
	amt, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("%s: invalid integer %q", key, s)
	}
	return amt, nil
}

func (rn *runner) argOrderID(args map[string]interface{}) (uint64, error) {
	raw := args["order_id"]
	if s := cast.ToString(raw); s == "last" {
		return rn.lastOrder, nil
	}
	return cast.ToUint64E(raw)
}

func argString(args map[string]interface{}, key string) string {
	return cast.ToString(args[key])
}

func parseCoins(list []string) (sdk.Coins, error) {
	return sdk.ParseCoinsNormalized(strings.Join(list, ","))
}

// fundAccounts mints the scenario's opening balances in name order.
func (rn *runner) fundAccounts(accounts map[string][]string) error {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		coins, err := parseCoins(accounts[name])
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		if err := rn.env.Fund(rn.address(name), coins); err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
	}
	return nil
}

// execute runs one step and returns its response for the report.
func (rn *runner) execute(step Step) (interface{}, error) {
	ctx := rn.env.Ctx
	args := step.Args
	if args == nil {
		args = map[string]interface{}{}
	}

	switch step.Op {
	case "commit":
		return rn.commit()

	case "fund":
		coins, err := parseCoins(cast.ToStringSlice(args["coins"]))
		if err != nil {
			return nil, err
		}
		return nil, rn.env.Fund(rn.address(step.Signer), coins)

	case "simulate":
		return rn.simulate(args)
	}

	signer, err := rn.signer(step)
	if err != nil {
		return nil, err
	}

	switch step.Op {
	case "register_token":
		decimals, err := cast.ToUint32E(args["decimals"])
		if err != nil {
			return nil, fmt.Errorf("decimals: %w", err)
		}
		return rn.ms.RegisterToken(ctx, types.NewMsgRegisterToken(signer, argString(args, "denom"), decimals))

	case "create_pool":
		amountA, amountB, err := twoInts(args, "amount_a", "amount_b")
		if err != nil {
			return nil, err
		}
		return rn.ms.CreatePool(ctx, types.NewMsgCreatePool(signer, argString(args, "token_a"), argString(args, "token_b"), amountA, amountB))

	case "add_liquidity":
		amountA, amountB, err := twoInts(args, "amount_a", "amount_b")
		if err != nil {
			return nil, err
		}
		return rn.ms.AddLiquidity(ctx, types.NewMsgAddLiquidity(signer, argString(args, "token_a"), argString(args, "token_b"), amountA, amountB))

	case "remove_liquidity":
		amountA, minB, err := twoInts(args, "amount_a", "min_amount_b")
		if err != nil {
			return nil, err
		}
		return rn.ms.RemoveLiquidity(ctx, types.NewMsgRemoveLiquidity(signer, argString(args, "token_a"), argString(args, "token_b"), amountA, minB))

	case "swap":
		amountIn, minOut, err := twoInts(args, "amount_in", "min_amount_out")
		if err != nil {
			return nil, err
		}
		return rn.ms.Swap(ctx, types.NewMsgSwap(signer, argString(args, "token_in"), argString(args, "token_out"), amountIn, minOut))

	case "swap_fee":
		feeAmount, maxIn, err := twoInts(args, "fee_amount", "max_amount_in")
		if err != nil {
			return nil, err
		}
		return rn.ms.SwapFee(ctx, types.NewMsgSwapFee(signer, argString(args, "token_in"), feeAmount, maxIn))

	case "claim_fees":
		return rn.ms.ClaimFees(ctx, types.NewMsgClaimFees(signer, argString(args, "token_a"), argString(args, "token_b")))

	case "withdraw_protocol_fees":
		amount, err := argInt(args, "amount")
		if err != nil {
			return nil, err
		}
		recipient := rn.address(argString(args, "recipient")).String()
		return rn.ms.WithdrawProtocolFees(ctx, types.NewMsgWithdrawProtocolFees(signer, recipient,
			argString(args, "token_a"), argString(args, "token_b"), argString(args, "denom"), amount))

	case "limit_order":
		side, err := types.ParseOrderSide(argString(args, "side"))
		if err != nil {
			return nil, err
		}
		amount, price, err := twoInts(args, "amount", "price")
		if err != nil {
			return nil, err
		}
		resp, err := rn.ms.OpenLimitOrder(ctx, types.NewMsgOpenLimitOrder(signer, argString(args, "base"), argString(args, "quote"),
			side, amount, price, cast.ToBool(args["ioc"])))
		if err == nil {
			rn.lastOrder = resp.OrderID
		}
		return resp, err

	case "market_order":
		side, err := types.ParseOrderSide(argString(args, "side"))
		if err != nil {
			return nil, err
		}
		amount, err := argInt(args, "amount")
		if err != nil {
			return nil, err
		}
		resp, err := rn.ms.OpenMarketOrder(ctx, types.NewMsgOpenMarketOrder(signer, argString(args, "base"), argString(args, "quote"), side, amount))
		if err == nil {
			rn.lastOrder = resp.OrderID
		}
		return resp, err

	case "cancel_order":
		id, err := rn.argOrderID(args)
		if err != nil {
			return nil, err
		}
		return rn.ms.CancelExchangeOrder(ctx, types.NewMsgCancelExchangeOrder(signer, id))

	case "otc_open":
		amount, price, err := twoInts(args, "amount", "price")
		if err != nil {
			return nil, err
		}
		resp, err := rn.ms.OpenOTCOrder(ctx, types.NewMsgOpenOTCOrder(signer, argString(args, "base"), argString(args, "quote"), amount, price))
		if err == nil {
			rn.lastOrder = resp.OrderID
		}
		return resp, err

	case "otc_take":
		id, err := rn.argOrderID(args)
		if err != nil {
			return nil, err
		}
		return rn.ms.TakeOTCOrder(ctx, types.NewMsgTakeOTCOrder(signer, id))

	case "otc_cancel":
		id, err := rn.argOrderID(args)
		if err != nil {
			return nil, err
		}
		return rn.ms.CancelOTCOrder(ctx, types.NewMsgCancelOTCOrder(signer, id))
	}

	return nil, fmt.Errorf("unknown op %q", step.Op)
}

func twoInts(args map[string]interface{}, a, b string) (math.Int, math.Int, error) {
	x, err := argInt(args, a)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	y, err := argInt(args, b)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return x, y, nil
}

type commitResult struct {
	Height  int64  `json:"height"`
	AppHash string `json:"app_hash"`
}

// commit ends the block: end blocker, store commit, next header.
func (rn *runner) commit() (commitResult, error) {
	if err := rn.env.Keeper.EndBlocker(rn.env.Ctx); err != nil {
		return commitResult{}, err
	}
	height := rn.env.Ctx.BlockHeight()
	hash := rn.env.Commit()
	return commitResult{Height: height, AppHash: fmt.Sprintf("%X", hash)}, nil
}

type simulateResult struct {
	Operations int            `json:"operations"`
	Accepted   int            `json:"accepted"`
	ByName     map[string]int `json:"accepted_by_name"`
}

// simulate runs a seeded burst of random operations against funded accounts.
func (rn *runner) simulate(args map[string]interface{}) (simulateResult, error) {
	seed := cast.ToInt64(args["seed"])
	count := cast.ToInt(args["count"])
	numAccounts := cast.ToInt(args["accounts"])
	if numAccounts <= 0 {
		numAccounts = 5
	}

	r := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation
	accs := simtypes.RandomAccounts(r, numAccounts)

	coins, err := parseCoins(cast.ToStringSlice(args["fund"]))
	if err != nil {
		return simulateResult{}, fmt.Errorf("fund: %w", err)
	}
	for _, acc := range accs {
		if err := rn.env.Fund(acc.Address, coins); err != nil {
			return simulateResult{}, err
		}
	}

	denoms := cast.ToStringSlice(args["denoms"])
	if len(denoms) == 0 {
		denoms = coins.Denoms()
	}

	weights := make(map[string]int)
	for name, w := range cast.ToStringMap(args["weights"]) {
		weights[name] = cast.ToInt(w)
	}

	ops := simulation.WeightedOperations(weights, *rn.env.Keeper, denoms)
	msgs, err := simulation.Run(r, rn.env.Ctx, *rn.env.Keeper, ops, accs, count)

	res := simulateResult{Operations: len(msgs), ByName: make(map[string]int)}
	for _, m := range msgs {
		if m.OK {
			res.Accepted++
			res.ByName[m.Name]++
		}
	}
	return res, err
}

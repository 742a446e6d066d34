package simulation

import (
	"fmt"
	"math/rand"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

// Simulation operation weights constants
const (
	OpWeightMsgCreatePool          = "op_weight_msg_create_pool"
	OpWeightMsgAddLiquidity        = "op_weight_msg_add_liquidity"
	OpWeightMsgRemoveLiquidity     = "op_weight_msg_remove_liquidity"
	OpWeightMsgSwap                = "op_weight_msg_swap"
	OpWeightMsgSwapFee             = "op_weight_msg_swap_fee"
	OpWeightMsgClaimFees           = "op_weight_msg_claim_fees"
	OpWeightMsgOpenLimitOrder      = "op_weight_msg_open_limit_order"
	OpWeightMsgOpenMarketOrder     = "op_weight_msg_open_market_order"
	OpWeightMsgCancelExchangeOrder = "op_weight_msg_cancel_exchange_order"
	OpWeightMsgOpenOTCOrder        = "op_weight_msg_open_otc_order"
	OpWeightMsgTakeOTCOrder        = "op_weight_msg_take_otc_order"
	OpWeightMsgCancelOTCOrder      = "op_weight_msg_cancel_otc_order"

	DefaultWeightMsgCreatePool          = 10
	DefaultWeightMsgAddLiquidity        = 20
	DefaultWeightMsgRemoveLiquidity     = 10
	DefaultWeightMsgSwap                = 40
	DefaultWeightMsgSwapFee             = 5
	DefaultWeightMsgClaimFees           = 10
	DefaultWeightMsgOpenLimitOrder      = 40
	DefaultWeightMsgOpenMarketOrder     = 15
	DefaultWeightMsgCancelExchangeOrder = 10
	DefaultWeightMsgOpenOTCOrder        = 10
	DefaultWeightMsgTakeOTCOrder        = 5
	DefaultWeightMsgCancelOTCOrder      = 5
)

// OperationMsg records the outcome of one simulated message. Rejected messages
// are normal; OK is false and Comment carries the reason.
type OperationMsg struct {
	Name    string `json:"name" yaml:"name"`
	OK      bool   `json:"ok" yaml:"ok"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Operation builds and delivers one random message. A returned error means the
// module reached a state it must never reach.
type Operation func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error)

// WeightedOperation pairs an operation with its selection weight.
type WeightedOperation struct {
	Name   string
	Weight int
	Op     Operation
}

// DefaultWeights returns the default weight of every operation keyed by its
// OpWeight name.
func DefaultWeights() map[string]int {
	return map[string]int{
		OpWeightMsgCreatePool:          DefaultWeightMsgCreatePool,
		OpWeightMsgAddLiquidity:        DefaultWeightMsgAddLiquidity,
		OpWeightMsgRemoveLiquidity:     DefaultWeightMsgRemoveLiquidity,
		OpWeightMsgSwap:                DefaultWeightMsgSwap,
		OpWeightMsgSwapFee:             DefaultWeightMsgSwapFee,
		OpWeightMsgClaimFees:           DefaultWeightMsgClaimFees,
		OpWeightMsgOpenLimitOrder:      DefaultWeightMsgOpenLimitOrder,
		OpWeightMsgOpenMarketOrder:     DefaultWeightMsgOpenMarketOrder,
		OpWeightMsgCancelExchangeOrder: DefaultWeightMsgCancelExchangeOrder,
		OpWeightMsgOpenOTCOrder:        DefaultWeightMsgOpenOTCOrder,
		OpWeightMsgTakeOTCOrder:        DefaultWeightMsgTakeOTCOrder,
		OpWeightMsgCancelOTCOrder:      DefaultWeightMsgCancelOTCOrder,
	}
}

// WeightedOperations returns all the DEX module operations with their respective
// weights. Missing entries in weights fall back to the defaults; a zero weight
// disables an operation.
func WeightedOperations(weights map[string]int, k keeper.Keeper, denoms []string) []WeightedOperation {
	ms := keeper.NewMsgServerImpl(k)

	weight := func(name string) int {
		if w, ok := weights[name]; ok {
			return w
		}
		return DefaultWeights()[name]
	}

	ops := []WeightedOperation{
		{OpWeightMsgCreatePool, weight(OpWeightMsgCreatePool), SimulateMsgCreatePool(ms, denoms)},
		{OpWeightMsgAddLiquidity, weight(OpWeightMsgAddLiquidity), SimulateMsgAddLiquidity(ms, k)},
		{OpWeightMsgRemoveLiquidity, weight(OpWeightMsgRemoveLiquidity), SimulateMsgRemoveLiquidity(ms, k)},
		{OpWeightMsgSwap, weight(OpWeightMsgSwap), SimulateMsgSwap(ms, denoms)},
		{OpWeightMsgSwapFee, weight(OpWeightMsgSwapFee), SimulateMsgSwapFee(ms, k, denoms)},
		{OpWeightMsgClaimFees, weight(OpWeightMsgClaimFees), SimulateMsgClaimFees(ms, k)},
		{OpWeightMsgOpenLimitOrder, weight(OpWeightMsgOpenLimitOrder), SimulateMsgOpenLimitOrder(ms, k, denoms)},
		{OpWeightMsgOpenMarketOrder, weight(OpWeightMsgOpenMarketOrder), SimulateMsgOpenMarketOrder(ms, k, denoms)},
		{OpWeightMsgCancelExchangeOrder, weight(OpWeightMsgCancelExchangeOrder), SimulateMsgCancelExchangeOrder(ms, k)},
		{OpWeightMsgOpenOTCOrder, weight(OpWeightMsgOpenOTCOrder), SimulateMsgOpenOTCOrder(ms, denoms)},
		{OpWeightMsgTakeOTCOrder, weight(OpWeightMsgTakeOTCOrder), SimulateMsgTakeOTCOrder(ms, k)},
		{OpWeightMsgCancelOTCOrder, weight(OpWeightMsgCancelOTCOrder), SimulateMsgCancelOTCOrder(ms, k)},
	}

	enabled := ops[:0]
	for _, op := range ops {
		if op.Weight > 0 {
			enabled = append(enabled, op)
		}
	}
	return enabled
}

// deliver classifies a msg server result. Only invariant violations abort the
// simulation; every other error is an ordinary rejection.
func deliver(name string, err error) (OperationMsg, error) {
	if err == nil {
		return OperationMsg{Name: name, OK: true}, nil
	}
	if errorsmod.IsOf(err, types.ErrInvariantViolation) {
		return OperationMsg{Name: name, Comment: err.Error()}, fmt.Errorf("%s: %w", name, err)
	}
	return OperationMsg{Name: name, Comment: err.Error()}, nil
}

func noOp(name, comment string) (OperationMsg, error) {
	return OperationMsg{Name: name, Comment: comment}, nil
}

func randomPair(r *rand.Rand, denoms []string) (string, string, bool) {
	if len(denoms) < 2 {
		return "", "", false
	}
	i := r.Intn(len(denoms))
	j := r.Intn(len(denoms) - 1)
	if j >= i {
		j++
	}
	return denoms[i], denoms[j], true
}

func randomInt(r *rand.Rand, min, max int) math.Int {
	return math.NewInt(int64(simtypes.RandIntBetween(r, min, max)))
}

// tokenUnit returns 10^decimals for a registered denom and one otherwise.
func tokenUnit(ctx sdk.Context, k keeper.Keeper, denom string) math.Int {
	info, found := k.GetToken(ctx, denom)
	if !found {
		return math.OneInt()
	}
	return keeper.Pow10(info.Decimals)
}

// scaled returns n/100 whole tokens of unit, never less than one atomic unit.
func scaled(n math.Int, unit math.Int) math.Int {
	v := n.Mul(unit).QuoRaw(100)
	if v.IsPositive() {
		return v
	}
	return math.OneInt()
}

// SimulateMsgCreatePool generates a MsgCreatePool with random values
func SimulateMsgCreatePool(ms types.MsgServer, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		tokenA, tokenB, ok := randomPair(r, denoms)
		if !ok {
			return noOp(types.TypeMsgCreatePool, "need two denoms")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		msg := types.NewMsgCreatePool(simAccount.Address.String(), tokenA, tokenB,
			randomInt(r, 1_000, 1_000_000), randomInt(r, 1_000, 1_000_000))
		_, err := ms.CreatePool(ctx, msg)
		return deliver(types.TypeMsgCreatePool, err)
	}
}

// SimulateMsgAddLiquidity deposits into a random pool, sometimes naming only one side.
func SimulateMsgAddLiquidity(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(pools) == 0 {
			return noOp(types.TypeMsgAddLiquidity, "no pools")
		}
		pool := pools[r.Intn(len(pools))]
		simAccount, _ := simtypes.RandomAcc(r, accs)

		amountA := randomInt(r, 1, 100_000)
		amountB := randomInt(r, 1, 100_000)
		switch r.Intn(3) {
		case 0:
			amountB = math.ZeroInt()
		case 1:
			amountA = math.ZeroInt()
		}

		msg := types.NewMsgAddLiquidity(simAccount.Address.String(), pool.Denom0, pool.Denom1, amountA, amountB)
		_, err = ms.AddLiquidity(ctx, msg)
		return deliver(types.TypeMsgAddLiquidity, err)
	}
}

// SimulateMsgRemoveLiquidity withdraws part of a random position.
func SimulateMsgRemoveLiquidity(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, _ []simtypes.Account) (OperationMsg, error) {
		positions, err := k.GetAllPositions(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(positions) == 0 {
			return noOp(types.TypeMsgRemoveLiquidity, "no positions")
		}
		position := positions[r.Intn(len(positions))]
		if !position.Liquidity.IsPositive() {
			return noOp(types.TypeMsgRemoveLiquidity, "position has only owed fees")
		}
		pool, err := k.GetPool(ctx, position.Denom0, position.Denom1)
		if err != nil {
			return OperationMsg{}, err
		}
		entitled := pool.Amount0.Mul(position.Liquidity).Quo(pool.TotalLiquidity)
		if !entitled.IsPositive() {
			return noOp(types.TypeMsgRemoveLiquidity, "entitlement rounds to zero")
		}
		amount := entitled
		if entitled.GT(math.OneInt()) && entitled.IsInt64() && r.Intn(2) == 0 {
			amount = math.NewIntFromUint64(uint64(r.Int63n(entitled.Int64()-1) + 1))
		}

		msg := types.NewMsgRemoveLiquidity(position.Provider, pool.Denom0, pool.Denom1, amount, math.ZeroInt())
		_, err = ms.RemoveLiquidity(ctx, msg)
		return deliver(types.TypeMsgRemoveLiquidity, err)
	}
}

// SimulateMsgSwap swaps between two random denoms, direct or through the bridge.
func SimulateMsgSwap(ms types.MsgServer, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		tokenIn, tokenOut, ok := randomPair(r, denoms)
		if !ok {
			return noOp(types.TypeMsgSwap, "need two denoms")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		msg := types.NewMsgSwap(simAccount.Address.String(), tokenIn, tokenOut, randomInt(r, 1, 50_000), math.ZeroInt())
		_, err := ms.Swap(ctx, msg)
		return deliver(types.TypeMsgSwap, err)
	}
}

// SimulateMsgSwapFee buys a small amount of the fee denom.
func SimulateMsgSwapFee(ms types.MsgServer, k keeper.Keeper, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		candidates := make([]string, 0, len(denoms))
		for _, d := range denoms {
			if d != params.FeeDenom {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			return noOp(types.TypeMsgSwapFee, "no input denom")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		msg := types.NewMsgSwapFee(simAccount.Address.String(), candidates[r.Intn(len(candidates))], randomInt(r, 1, 1_000), math.ZeroInt())
		_, err = ms.SwapFee(ctx, msg)
		return deliver(types.TypeMsgSwapFee, err)
	}
}

// SimulateMsgClaimFees claims the fees of a random position.
func SimulateMsgClaimFees(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, _ []simtypes.Account) (OperationMsg, error) {
		positions, err := k.GetAllPositions(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(positions) == 0 {
			return noOp(types.TypeMsgClaimFees, "no positions")
		}
		position := positions[r.Intn(len(positions))]

		msg := types.NewMsgClaimFees(position.Provider, position.Denom0, position.Denom1)
		_, err = ms.ClaimFees(ctx, msg)
		return deliver(types.TypeMsgClaimFees, err)
	}
}

func randomSide(r *rand.Rand) types.OrderSide {
	if r.Intn(2) == 0 {
		return types.OrderSideBuy
	}
	return types.OrderSideSell
}

// SimulateMsgOpenLimitOrder places a limit order priced around one quote token
// per base token, so books on the same pair frequently cross.
func SimulateMsgOpenLimitOrder(ms types.MsgServer, k keeper.Keeper, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		base, quote, ok := randomPair(r, denoms)
		if !ok {
			return noOp(types.TypeMsgOpenLimitOrder, "need two denoms")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		amount := scaled(randomInt(r, 1, 10_000), tokenUnit(ctx, k, base))
		price := scaled(randomInt(r, 80, 120), tokenUnit(ctx, k, quote))

		msg := types.NewMsgOpenLimitOrder(simAccount.Address.String(), base, quote, randomSide(r), amount, price, r.Intn(4) == 0)
		_, err := ms.OpenLimitOrder(ctx, msg)
		return deliver(types.TypeMsgOpenLimitOrder, err)
	}
}

// SimulateMsgOpenMarketOrder sweeps a random book.
func SimulateMsgOpenMarketOrder(ms types.MsgServer, k keeper.Keeper, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		base, quote, ok := randomPair(r, denoms)
		if !ok {
			return noOp(types.TypeMsgOpenMarketOrder, "need two denoms")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		side := randomSide(r)
		spent := base
		if side == types.OrderSideBuy {
			spent = quote
		}
		amount := scaled(randomInt(r, 1, 10_000), tokenUnit(ctx, k, spent))

		msg := types.NewMsgOpenMarketOrder(simAccount.Address.String(), base, quote, side, amount)
		_, err := ms.OpenMarketOrder(ctx, msg)
		return deliver(types.TypeMsgOpenMarketOrder, err)
	}
}

// SimulateMsgCancelExchangeOrder cancels a random resting order as its creator.
func SimulateMsgCancelExchangeOrder(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, _ []simtypes.Account) (OperationMsg, error) {
		orders, err := k.GetAllOrders(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(orders) == 0 {
			return noOp(types.TypeMsgCancelExchangeOrder, "empty books")
		}
		order := orders[r.Intn(len(orders))]

		_, err = ms.CancelExchangeOrder(ctx, types.NewMsgCancelExchangeOrder(order.Creator, order.UID))
		return deliver(types.TypeMsgCancelExchangeOrder, err)
	}
}

// SimulateMsgOpenOTCOrder escrows a random quote amount for a random base price.
func SimulateMsgOpenOTCOrder(ms types.MsgServer, denoms []string) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		base, quote, ok := randomPair(r, denoms)
		if !ok {
			return noOp(types.TypeMsgOpenOTCOrder, "need two denoms")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		msg := types.NewMsgOpenOTCOrder(simAccount.Address.String(), base, quote,
			randomInt(r, 1, 100_000), randomInt(r, 1, 100_000))
		_, err := ms.OpenOTCOrder(ctx, msg)
		return deliver(types.TypeMsgOpenOTCOrder, err)
	}
}

// SimulateMsgTakeOTCOrder takes a random OTC order with a random account.
func SimulateMsgTakeOTCOrder(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) (OperationMsg, error) {
		orders, err := k.GetOTCOrders(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(orders) == 0 {
			return noOp(types.TypeMsgTakeOTCOrder, "no otc orders")
		}
		order := orders[r.Intn(len(orders))]
		simAccount, _ := simtypes.RandomAcc(r, accs)

		_, err = ms.TakeOTCOrder(ctx, types.NewMsgTakeOTCOrder(simAccount.Address.String(), order.UID))
		return deliver(types.TypeMsgTakeOTCOrder, err)
	}
}

// SimulateMsgCancelOTCOrder cancels a random OTC order as its creator.
func SimulateMsgCancelOTCOrder(ms types.MsgServer, k keeper.Keeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, _ []simtypes.Account) (OperationMsg, error) {
		orders, err := k.GetOTCOrders(ctx)
		if err != nil {
			return OperationMsg{}, err
		}
		if len(orders) == 0 {
			return noOp(types.TypeMsgCancelOTCOrder, "no otc orders")
		}
		order := orders[r.Intn(len(orders))]

		_, err = ms.CancelOTCOrder(ctx, types.NewMsgCancelOTCOrder(order.Creator, order.UID))
		return deliver(types.TypeMsgCancelOTCOrder, err)
	}
}

package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	metrics "github.com/hashicorp/go-metrics"

	"github.com/paw-chain/dexchain/x/dex/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the dex MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// atomically runs fn against a cached branch of the store and commits it only
// when fn succeeds, so a failed message leaves no partial writes or transfers.
func atomically(goCtx context.Context, fn func(ctx sdk.Context) error) error {
	cacheCtx, write := sdk.UnwrapSDKContext(goCtx).CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func parseAddress(field, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid %s address: %v", field, err)
	}
	return acc, nil
}

func countMsg(name string, labels ...metrics.Label) {
	telemetry.IncrCounterWithLabels([]string{types.ModuleName, "msg", name}, 1, labels)
}

// OpenLimitOrder places a limit order on the book
func (ms msgServer) OpenLimitOrder(goCtx context.Context, msg *types.MsgOpenLimitOrder) (*types.MsgOpenLimitOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenLimitOrder: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("OpenLimitOrder: %w", err)
	}

	var result types.OrderResult
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		result, err = ms.Keeper.OpenLimitOrder(ctx, creator, msg.BaseDenom, msg.QuoteDenom, msg.Side, msg.Amount, msg.Price, msg.ImmediateOrCancel)
		return err
	}); err != nil {
		return nil, fmt.Errorf("OpenLimitOrder: %w", err)
	}

	countMsg("open_limit_order",
		telemetry.NewLabel("side", msg.Side.String()),
		telemetry.NewLabel("status", result.Status.String()),
	)

	return &types.MsgOpenLimitOrderResponse{
		OrderID:     result.Order.UID,
		Status:      result.Status,
		FilledBase:  result.FilledBase(),
		FilledQuote: result.FilledQuote(),
		Fills:       result.Fills,
	}, nil
}

// OpenMarketOrder sweeps the book and refunds whatever is left unmatched
func (ms msgServer) OpenMarketOrder(goCtx context.Context, msg *types.MsgOpenMarketOrder) (*types.MsgOpenMarketOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenMarketOrder: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("OpenMarketOrder: %w", err)
	}

	var result types.OrderResult
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		result, err = ms.Keeper.OpenMarketOrder(ctx, creator, msg.BaseDenom, msg.QuoteDenom, msg.Side, msg.Amount)
		return err
	}); err != nil {
		return nil, fmt.Errorf("OpenMarketOrder: %w", err)
	}

	// The whole escrow is either spent on fills or refunded.
	spent := result.FilledBase()
	if msg.Side == types.OrderSideBuy {
		spent = result.FilledQuote()
	}

	countMsg("open_market_order",
		telemetry.NewLabel("side", msg.Side.String()),
		telemetry.NewLabel("status", result.Status.String()),
	)

	return &types.MsgOpenMarketOrderResponse{
		OrderID:     result.Order.UID,
		Status:      result.Status,
		FilledBase:  result.FilledBase(),
		FilledQuote: result.FilledQuote(),
		Refunded:    msg.Amount.Sub(spent),
	}, nil
}

// CancelExchangeOrder cancels a resting order
func (ms msgServer) CancelExchangeOrder(goCtx context.Context, msg *types.MsgCancelExchangeOrder) (*types.MsgCancelExchangeOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelExchangeOrder: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CancelExchangeOrder: %w", err)
	}

	var refunded math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		refunded, err = ms.Keeper.CancelExchangeOrder(ctx, creator, msg.OrderID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("CancelExchangeOrder: %w", err)
	}

	countMsg("cancel_exchange_order")
	return &types.MsgCancelExchangeOrderResponse{Refunded: refunded}, nil
}

// OpenOTCOrder escrows the offered quote amount
func (ms msgServer) OpenOTCOrder(goCtx context.Context, msg *types.MsgOpenOTCOrder) (*types.MsgOpenOTCOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenOTCOrder: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("OpenOTCOrder: %w", err)
	}

	var order types.OTCOrder
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		order, err = ms.Keeper.OpenOTCOrder(ctx, creator, msg.BaseDenom, msg.QuoteDenom, msg.Amount, msg.Price)
		return err
	}); err != nil {
		return nil, fmt.Errorf("OpenOTCOrder: %w", err)
	}

	countMsg("open_otc_order")
	return &types.MsgOpenOTCOrderResponse{OrderID: order.UID}, nil
}

// TakeOTCOrder fills an OTC order in full
func (ms msgServer) TakeOTCOrder(goCtx context.Context, msg *types.MsgTakeOTCOrder) (*types.MsgTakeOTCOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("TakeOTCOrder: validate: %w", err)
	}
	taker, err := parseAddress("taker", msg.Taker)
	if err != nil {
		return nil, fmt.Errorf("TakeOTCOrder: %w", err)
	}

	if err := atomically(goCtx, func(ctx sdk.Context) error {
		_, err := ms.Keeper.TakeOTCOrder(ctx, taker, msg.OrderID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("TakeOTCOrder: %w", err)
	}

	countMsg("take_otc_order")
	return &types.MsgTakeOTCOrderResponse{}, nil
}

// CancelOTCOrder returns the escrow of an OTC order to its creator
func (ms msgServer) CancelOTCOrder(goCtx context.Context, msg *types.MsgCancelOTCOrder) (*types.MsgCancelOTCOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelOTCOrder: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CancelOTCOrder: %w", err)
	}

	var refunded math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		refunded, err = ms.Keeper.CancelOTCOrder(ctx, creator, msg.OrderID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("CancelOTCOrder: %w", err)
	}

	countMsg("cancel_otc_order")
	return &types.MsgCancelOTCOrderResponse{Refunded: refunded}, nil
}

// CreatePool handles the creation of a new liquidity pool
func (ms msgServer) CreatePool(goCtx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CreatePool: validate: %w", err)
	}
	creator, err := parseAddress("creator", msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CreatePool: %w", err)
	}

	var (
		pool      types.Pool
		liquidity math.Int
	)
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		pool, liquidity, err = ms.Keeper.CreatePool(ctx, creator, msg.TokenA, msg.TokenB, msg.AmountA, msg.AmountB)
		return err
	}); err != nil {
		return nil, fmt.Errorf("CreatePool: %w", err)
	}

	countMsg("create_pool", telemetry.NewLabel("pair", pairLabel(pool.Denom0, pool.Denom1)))
	return &types.MsgCreatePoolResponse{
		Denom0:    pool.Denom0,
		Denom1:    pool.Denom1,
		Liquidity: liquidity,
	}, nil
}

// AddLiquidity handles adding liquidity to an existing pool
func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}
	provider, err := parseAddress("provider", msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	var usedA, usedB, minted math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		usedA, usedB, minted, err = ms.Keeper.AddLiquidity(ctx, provider, msg.TokenA, msg.AmountA, msg.TokenB, msg.AmountB)
		return err
	}); err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	countMsg("add_liquidity")
	return &types.MsgAddLiquidityResponse{
		AmountA:   usedA,
		AmountB:   usedB,
		Liquidity: minted,
	}, nil
}

// RemoveLiquidity handles removing liquidity from a pool
func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}
	provider, err := parseAddress("provider", msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	var outA, outB, burned math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		outA, outB, burned, err = ms.Keeper.RemoveLiquidity(ctx, provider, msg.TokenA, msg.AmountA, msg.TokenB, msg.AmountB)
		return err
	}); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	countMsg("remove_liquidity")
	return &types.MsgRemoveLiquidityResponse{
		AmountA:   outA,
		AmountB:   outB,
		Liquidity: burned,
	}, nil
}

// Swap handles token swaps
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Swap: validate: %w", err)
	}
	trader, err := parseAddress("trader", msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	var (
		amountOut math.Int
		route     types.SwapRoute
	)
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		amountOut, route, err = ms.Keeper.SwapTokens(ctx, trader, msg.TokenIn, msg.TokenOut, msg.AmountIn, msg.MinAmountOut)
		return err
	}); err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	countMsg("swap",
		telemetry.NewLabel("denom_in", msg.TokenIn),
		telemetry.NewLabel("hops", fmt.Sprintf("%d", len(route.Hops))),
	)
	return &types.MsgSwapResponse{
		AmountOut: amountOut,
		Route:     route,
	}, nil
}

// SwapFee buys an exact amount of the fee token
func (ms msgServer) SwapFee(goCtx context.Context, msg *types.MsgSwapFee) (*types.MsgSwapFeeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapFee: validate: %w", err)
	}
	trader, err := parseAddress("trader", msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapFee: %w", err)
	}

	var amountIn, amountOut math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		amountIn, amountOut, err = ms.Keeper.SwapFee(ctx, trader, msg.TokenIn, msg.FeeAmount, msg.MaxAmountIn)
		return err
	}); err != nil {
		return nil, fmt.Errorf("SwapFee: %w", err)
	}

	countMsg("swap_fee", telemetry.NewLabel("denom_in", msg.TokenIn))
	return &types.MsgSwapFeeResponse{
		AmountIn:  amountIn,
		AmountOut: amountOut,
	}, nil
}

// ClaimFees pays out the LP fees accrued to a position
func (ms msgServer) ClaimFees(goCtx context.Context, msg *types.MsgClaimFees) (*types.MsgClaimFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ClaimFees: validate: %w", err)
	}
	provider, err := parseAddress("provider", msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("ClaimFees: %w", err)
	}

	var paid0, paid1 math.Int
	if err := atomically(goCtx, func(ctx sdk.Context) error {
		_, paid0, paid1, err = ms.Keeper.ClaimFees(ctx, provider, msg.TokenA, msg.TokenB)
		return err
	}); err != nil {
		return nil, fmt.Errorf("ClaimFees: %w", err)
	}

	countMsg("claim_fees")
	return &types.MsgClaimFeesResponse{
		Amount0: paid0,
		Amount1: paid1,
	}, nil
}

// WithdrawProtocolFees pays accrued protocol fees to a recipient (authority only)
func (ms msgServer) WithdrawProtocolFees(goCtx context.Context, msg *types.MsgWithdrawProtocolFees) (*types.MsgWithdrawProtocolFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: validate: %w", err)
	}
	if msg.Authority != ms.authority {
		return nil, types.ErrNotAuthorized.Wrapf("expected %s, got %s", ms.authority, msg.Authority)
	}
	recipient, err := parseAddress("recipient", msg.Recipient)
	if err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: %w", err)
	}

	if err := atomically(goCtx, func(ctx sdk.Context) error {
		return ms.Keeper.WithdrawProtocolFees(ctx, msg.Authority, recipient, msg.TokenA, msg.TokenB, msg.Denom, msg.Amount)
	}); err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: %w", err)
	}

	countMsg("withdraw_protocol_fees", telemetry.NewLabel("denom", msg.Denom))
	return &types.MsgWithdrawProtocolFeesResponse{}, nil
}

// RegisterToken adds a denom to the token registry (authority only)
func (ms msgServer) RegisterToken(goCtx context.Context, msg *types.MsgRegisterToken) (*types.MsgRegisterTokenResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RegisterToken: validate: %w", err)
	}
	if msg.Authority != ms.authority {
		return nil, types.ErrNotAuthorized.Wrapf("expected %s, got %s", ms.authority, msg.Authority)
	}

	if err := atomically(goCtx, func(ctx sdk.Context) error {
		return ms.Keeper.RegisterToken(ctx, msg.Denom, msg.Decimals)
	}); err != nil {
		return nil, fmt.Errorf("RegisterToken: %w", err)
	}

	countMsg("register_token")
	return &types.MsgRegisterTokenResponse{}, nil
}

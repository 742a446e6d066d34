package types

import (
	"context"

	"cosmossdk.io/math"
)

type MsgOpenLimitOrderResponse struct {
	OrderID     uint64      `json:"order_id"`
	Status      OrderStatus `json:"status"`
	FilledBase  math.Int    `json:"filled_base"`
	FilledQuote math.Int    `json:"filled_quote"`
	Fills       []Fill      `json:"fills"`
}

type MsgOpenMarketOrderResponse struct {
	OrderID     uint64      `json:"order_id"`
	Status      OrderStatus `json:"status"`
	FilledBase  math.Int    `json:"filled_base"`
	FilledQuote math.Int    `json:"filled_quote"`
	Refunded    math.Int    `json:"refunded"`
}

type MsgCancelExchangeOrderResponse struct {
	Refunded math.Int `json:"refunded"`
}

type MsgOpenOTCOrderResponse struct {
	OrderID uint64 `json:"order_id"`
}

type MsgTakeOTCOrderResponse struct{}

type MsgCancelOTCOrderResponse struct {
	Refunded math.Int `json:"refunded"`
}

type MsgCreatePoolResponse struct {
	Denom0    string   `json:"denom0"`
	Denom1    string   `json:"denom1"`
	Liquidity math.Int `json:"liquidity"`
}

type MsgAddLiquidityResponse struct {
	AmountA   math.Int `json:"amount_a"`
	AmountB   math.Int `json:"amount_b"`
	Liquidity math.Int `json:"liquidity"`
}

type MsgRemoveLiquidityResponse struct {
	AmountA   math.Int `json:"amount_a"`
	AmountB   math.Int `json:"amount_b"`
	Liquidity math.Int `json:"liquidity"`
}

type MsgSwapResponse struct {
	AmountOut math.Int  `json:"amount_out"`
	Route     SwapRoute `json:"route"`
}

type MsgSwapFeeResponse struct {
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
}

type MsgClaimFeesResponse struct {
	Amount0 math.Int `json:"amount0"`
	Amount1 math.Int `json:"amount1"`
}

type MsgWithdrawProtocolFeesResponse struct{}

type MsgRegisterTokenResponse struct{}

// MsgServer is the transaction surface of the dex module.
type MsgServer interface {
	OpenLimitOrder(context.Context, *MsgOpenLimitOrder) (*MsgOpenLimitOrderResponse, error)
	OpenMarketOrder(context.Context, *MsgOpenMarketOrder) (*MsgOpenMarketOrderResponse, error)
	CancelExchangeOrder(context.Context, *MsgCancelExchangeOrder) (*MsgCancelExchangeOrderResponse, error)
	OpenOTCOrder(context.Context, *MsgOpenOTCOrder) (*MsgOpenOTCOrderResponse, error)
	TakeOTCOrder(context.Context, *MsgTakeOTCOrder) (*MsgTakeOTCOrderResponse, error)
	CancelOTCOrder(context.Context, *MsgCancelOTCOrder) (*MsgCancelOTCOrderResponse, error)
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	SwapFee(context.Context, *MsgSwapFee) (*MsgSwapFeeResponse, error)
	ClaimFees(context.Context, *MsgClaimFees) (*MsgClaimFeesResponse, error)
	WithdrawProtocolFees(context.Context, *MsgWithdrawProtocolFees) (*MsgWithdrawProtocolFeesResponse, error)
	RegisterToken(context.Context, *MsgRegisterToken) (*MsgRegisterTokenResponse, error)
}

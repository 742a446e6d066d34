package types

import (
	"context"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
)

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryPoolRequest struct {
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`
}

type QueryPoolResponse struct {
	Pool Pool `json:"pool"`
}

type QueryPoolsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryPoolsResponse struct {
	Pools      []Pool              `json:"pools"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryPoolValueRequest struct {
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`
}

type QueryPoolValueResponse struct {
	Value math.LegacyDec `json:"value"`
}

type QueryLiquidityPositionRequest struct {
	Provider string `json:"provider"`
	TokenA   string `json:"token_a"`
	TokenB   string `json:"token_b"`
}

type QueryLiquidityPositionResponse struct {
	Position LiquidityPosition `json:"position"`
}

type QueryRateRequest struct {
	TokenIn  string   `json:"token_in"`
	TokenOut string   `json:"token_out"`
	AmountIn math.Int `json:"amount_in"`
}

type QueryRateResponse struct {
	AmountOut math.Int  `json:"amount_out"`
	Route     SwapRoute `json:"route"`
}

type QuerySwapFeeQuoteRequest struct {
	TokenIn   string   `json:"token_in"`
	FeeAmount math.Int `json:"fee_amount"`
}

type QuerySwapFeeQuoteResponse struct {
	AmountIn math.Int `json:"amount_in"`
}

type QueryUnclaimedFeesRequest struct {
	Provider string `json:"provider"`
	TokenA   string `json:"token_a"`
	TokenB   string `json:"token_b"`
}

type QueryUnclaimedFeesResponse struct {
	Denom0  string   `json:"denom0"`
	Amount0 math.Int `json:"amount0"`
	Denom1  string   `json:"denom1"`
	Amount1 math.Int `json:"amount1"`
}

type QueryOrderBookRequest struct {
	BaseDenom  string `json:"base_denom"`
	QuoteDenom string `json:"quote_denom"`
	Limit      uint32 `json:"limit"`
}

type QueryOrderBookResponse struct {
	Bids []ExchangeOrder `json:"bids"`
	Asks []ExchangeOrder `json:"asks"`
}

type QueryExchangeOrderRequest struct {
	OrderID uint64 `json:"order_id"`
}

type QueryExchangeOrderResponse struct {
	Order ExchangeOrder `json:"order"`
}

type QueryOrderLeftoverEscrowRequest struct {
	OrderID uint64 `json:"order_id"`
}

type QueryOrderLeftoverEscrowResponse struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

type QueryOrdersByCreatorRequest struct {
	Creator    string             `json:"creator"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryOrdersByCreatorResponse struct {
	Orders     []ExchangeOrder     `json:"orders"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryOTCOrderRequest struct {
	OrderID uint64 `json:"order_id"`
}

type QueryOTCOrderResponse struct {
	Order OTCOrder `json:"order"`
}

type QueryOTCOrdersRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryOTCOrdersResponse struct {
	Orders     []OTCOrder          `json:"orders"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryTokensRequest struct{}

type QueryTokensResponse struct {
	Tokens []TokenInfo `json:"tokens"`
}

// QueryServer is the read-only surface of the dex module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Tokens(context.Context, *QueryTokensRequest) (*QueryTokensResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	PoolValue(context.Context, *QueryPoolValueRequest) (*QueryPoolValueResponse, error)
	LiquidityPosition(context.Context, *QueryLiquidityPositionRequest) (*QueryLiquidityPositionResponse, error)
	Rate(context.Context, *QueryRateRequest) (*QueryRateResponse, error)
	SwapFeeQuote(context.Context, *QuerySwapFeeQuoteRequest) (*QuerySwapFeeQuoteResponse, error)
	UnclaimedFees(context.Context, *QueryUnclaimedFeesRequest) (*QueryUnclaimedFeesResponse, error)
	OrderBook(context.Context, *QueryOrderBookRequest) (*QueryOrderBookResponse, error)
	ExchangeOrder(context.Context, *QueryExchangeOrderRequest) (*QueryExchangeOrderResponse, error)
	OrderLeftoverEscrow(context.Context, *QueryOrderLeftoverEscrowRequest) (*QueryOrderLeftoverEscrowResponse, error)
	OrdersByCreator(context.Context, *QueryOrdersByCreatorRequest) (*QueryOrdersByCreatorResponse, error)
	OTCOrder(context.Context, *QueryOTCOrderRequest) (*QueryOTCOrderResponse, error)
	OTCOrders(context.Context, *QueryOTCOrdersRequest) (*QueryOTCOrdersResponse, error)
}

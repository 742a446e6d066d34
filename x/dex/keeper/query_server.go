package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/dexchain/x/dex/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the dex QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

var errInvalidRequest = status.Error(codes.InvalidArgument, "invalid request")

// clampPagination enforces sane pagination defaults and caps to protect against
// unbounded queries.
func clampPagination(req *query.PageRequest) *query.PageRequest {
	if req == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}
	if req.Limit == 0 {
		req.Limit = defaultPaginationLimit
	}
	if req.Limit > maxPaginationLimit {
		req.Limit = maxPaginationLimit
	}
	return req
}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Params: get params: %w", err)
	}

	return &types.QueryParamsResponse{
		Params: params,
	}, nil
}

// Tokens returns the token registry
func (qs queryServer) Tokens(goCtx context.Context, req *types.QueryTokensRequest) (*types.QueryTokensResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	tokens, err := qs.Keeper.GetAllTokens(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Tokens: %w", err)
	}
	return &types.QueryTokensResponse{Tokens: tokens}, nil
}

// Pool returns the pool of a token pair in either order
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	pool, err := qs.Keeper.GetPool(goCtx, req.TokenA, req.TokenB)
	if err != nil {
		return nil, fmt.Errorf("Pool: get pool %s/%s: %w", req.TokenA, req.TokenB, err)
	}

	return &types.QueryPoolResponse{
		Pool: pool,
	}, nil
}

// Pools returns all pools with pagination
func (qs queryServer) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	req.Pagination = clampPagination(req.Pagination)

	// Charge gas proportional to requested limit to prevent abuse
	ctx.GasMeter().ConsumeGas(req.Pagination.Limit*100, "paginated pools query")

	pools := make([]types.Pool, 0, int(req.Pagination.Limit))
	poolStore := prefix.NewStore(qs.Keeper.getStore(goCtx), PoolKeyPrefix)

	pageRes, err := query.Paginate(poolStore, req.Pagination, func(key []byte, value []byte) error {
		var pool types.Pool
		if err := json.Unmarshal(value, &pool); err != nil {
			return fmt.Errorf("unmarshal pool: %w", err)
		}
		pools = append(pools, pool)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Pools: paginate: %w", err)
	}

	return &types.QueryPoolsResponse{
		Pools:      pools,
		Pagination: pageRes,
	}, nil
}

// PoolValue returns the oracle value of a pool's reserves
func (qs queryServer) PoolValue(goCtx context.Context, req *types.QueryPoolValueRequest) (*types.QueryPoolValueResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	value, err := qs.Keeper.GetPoolValue(goCtx, req.TokenA, req.TokenB)
	if err != nil {
		return nil, fmt.Errorf("PoolValue: %w", err)
	}
	return &types.QueryPoolValueResponse{Value: value}, nil
}

// LiquidityPosition returns one provider's position in a pool
func (qs queryServer) LiquidityPosition(goCtx context.Context, req *types.QueryLiquidityPositionRequest) (*types.QueryLiquidityPositionResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}
	if _, err := sdk.AccAddressFromBech32(req.Provider); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid provider address: %v", err)
	}

	position, err := qs.Keeper.GetLiquidityPosition(goCtx, req.TokenA, req.TokenB, req.Provider)
	if err != nil {
		return nil, fmt.Errorf("LiquidityPosition: %w", err)
	}
	return &types.QueryLiquidityPositionResponse{Position: position}, nil
}

// Rate quotes a swap without executing it
func (qs queryServer) Rate(goCtx context.Context, req *types.QueryRateRequest) (*types.QueryRateResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	amountOut, route, err := qs.Keeper.GetRate(goCtx, req.TokenIn, req.TokenOut, req.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("Rate: %w", err)
	}
	return &types.QueryRateResponse{
		AmountOut: amountOut,
		Route:     route,
	}, nil
}

// SwapFeeQuote returns the input needed to buy an exact amount of the fee token
func (qs queryServer) SwapFeeQuote(goCtx context.Context, req *types.QuerySwapFeeQuoteRequest) (*types.QuerySwapFeeQuoteResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	amountIn, _, err := qs.Keeper.SwapFeeQuote(goCtx, req.TokenIn, req.FeeAmount)
	if err != nil {
		return nil, fmt.Errorf("SwapFeeQuote: %w", err)
	}
	return &types.QuerySwapFeeQuoteResponse{AmountIn: amountIn}, nil
}

// UnclaimedFees returns the LP fees a position could claim now
func (qs queryServer) UnclaimedFees(goCtx context.Context, req *types.QueryUnclaimedFeesRequest) (*types.QueryUnclaimedFeesResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	if _, err := sdk.AccAddressFromBech32(req.Provider); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid provider address: %v", err)
	}

	pool, amount0, amount1, err := qs.Keeper.GetUnclaimedFees(goCtx, req.Provider, req.TokenA, req.TokenB)
	if err != nil {
		return nil, fmt.Errorf("UnclaimedFees: %w", err)
	}
	return &types.QueryUnclaimedFeesResponse{
		Denom0:  pool.Denom0,
		Amount0: amount0,
		Denom1:  pool.Denom1,
		Amount1: amount1,
	}, nil
}

// OrderBook returns both sides of a book in priority order
func (qs queryServer) OrderBook(goCtx context.Context, req *types.QueryOrderBookRequest) (*types.QueryOrderBookResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	bids, asks, err := qs.Keeper.GetOrderBook(goCtx, req.BaseDenom, req.QuoteDenom, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("OrderBook: %w", err)
	}
	return &types.QueryOrderBookResponse{
		Bids: bids,
		Asks: asks,
	}, nil
}

// ExchangeOrder returns a resting order
func (qs queryServer) ExchangeOrder(goCtx context.Context, req *types.QueryExchangeOrderRequest) (*types.QueryExchangeOrderResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	order, err := qs.Keeper.GetExchangeOrder(goCtx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("ExchangeOrder: %w", err)
	}
	return &types.QueryExchangeOrderResponse{Order: order}, nil
}

// OrderLeftoverEscrow returns the escrow still held for a resting order
func (qs queryServer) OrderLeftoverEscrow(goCtx context.Context, req *types.QueryOrderLeftoverEscrowRequest) (*types.QueryOrderLeftoverEscrowResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	denom, amount, err := qs.Keeper.GetOrderLeftoverEscrow(goCtx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("OrderLeftoverEscrow: %w", err)
	}
	return &types.QueryOrderLeftoverEscrowResponse{
		Denom:  denom,
		Amount: amount,
	}, nil
}

// OrdersByCreator returns resting orders of one account with pagination
func (qs queryServer) OrdersByCreator(goCtx context.Context, req *types.QueryOrdersByCreatorRequest) (*types.QueryOrdersByCreatorResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}
	if _, err := sdk.AccAddressFromBech32(req.Creator); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid creator address: %v", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	req.Pagination = clampPagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(req.Pagination.Limit*100, "paginated orders query")

	orders := make([]types.ExchangeOrder, 0, int(req.Pagination.Limit))
	indexStore := prefix.NewStore(qs.Keeper.getStore(goCtx), OrderByCreatorPrefix(req.Creator))

	pageRes, err := query.Paginate(indexStore, req.Pagination, func(key []byte, value []byte) error {
		order, err := qs.Keeper.GetOrder(goCtx, uidFromBytes(value))
		if err != nil {
			return err
		}
		orders = append(orders, order)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("OrdersByCreator: paginate: %w", err)
	}

	return &types.QueryOrdersByCreatorResponse{
		Orders:     orders,
		Pagination: pageRes,
	}, nil
}

// OTCOrder returns an open OTC order
func (qs queryServer) OTCOrder(goCtx context.Context, req *types.QueryOTCOrderRequest) (*types.QueryOTCOrderResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	order, err := qs.Keeper.GetOTCOrder(goCtx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("OTCOrder: %w", err)
	}
	return &types.QueryOTCOrderResponse{Order: order}, nil
}

// OTCOrders returns all open OTC orders with pagination
func (qs queryServer) OTCOrders(goCtx context.Context, req *types.QueryOTCOrdersRequest) (*types.QueryOTCOrdersResponse, error) {
	if req == nil {
		return nil, errInvalidRequest
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	req.Pagination = clampPagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(req.Pagination.Limit*100, "paginated otc orders query")

	orders := make([]types.OTCOrder, 0, int(req.Pagination.Limit))
	otcStore := prefix.NewStore(qs.Keeper.getStore(goCtx), OTCOrderKeyPrefix)

	pageRes, err := query.Paginate(otcStore, req.Pagination, func(key []byte, value []byte) error {
		var order types.OTCOrder
		if err := json.Unmarshal(value, &order); err != nil {
			return fmt.Errorf("unmarshal otc order: %w", err)
		}
		orders = append(orders, order)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("OTCOrders: paginate: %w", err)
	}

	return &types.QueryOTCOrdersResponse{
		Orders:     orders,
		Pagination: pageRes,
	}, nil
}

package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// InitGenesis initializes the dex module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return types.ErrInvalidGenesis.Wrap(err.Error())
	}

	// Set parameters
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, token := range genState.Tokens {
		if err := k.SetToken(ctx, token); err != nil {
			return fmt.Errorf("failed to set token %s: %w", token.Denom, err)
		}
	}

	// Initialize pools
	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %s/%s: %w", pool.Denom0, pool.Denom1, err)
		}
	}

	for _, position := range genState.Positions {
		if err := k.SetPosition(ctx, position); err != nil {
			return fmt.Errorf("failed to set position %s in %s/%s: %w",
				position.Provider, position.Denom0, position.Denom1, err)
		}
	}

	// SetOrder rebuilds the book and creator indexes.
	for _, order := range genState.Orders {
		if err := k.SetOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to set order %d: %w", order.UID, err)
		}
	}

	for _, order := range genState.OTCOrders {
		if err := k.SetOTCOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to set otc order %d: %w", order.UID, err)
		}
	}

	k.SetNextOrderUID(ctx, genState.NextOrderUID)

	k.Logger(ctx).Info("dex genesis initialized",
		"tokens", len(genState.Tokens),
		"pools", len(genState.Pools),
		"orders", len(genState.Orders),
		"otc_orders", len(genState.OTCOrders),
	)
	return nil
}

// ExportGenesis exports the dex module's state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	tokens, err := k.GetAllTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}

	positions, err := k.GetAllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	orders, err := k.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	otcOrders, err := k.GetOTCOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get otc orders: %w", err)
	}

	return &types.GenesisState{
		Params:       params,
		Tokens:       tokens,
		Pools:        pools,
		Positions:    positions,
		Orders:       orders,
		OTCOrders:    otcOrders,
		NextOrderUID: k.GetNextOrderUID(ctx),
	}, nil
}

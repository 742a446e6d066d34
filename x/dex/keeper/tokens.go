package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// RegisterToken adds a denom to the registry. Re-registering an existing denom
// with different decimals is rejected because resting orders are priced against it.
func (k Keeper) RegisterToken(ctx context.Context, denom string, decimals uint32) error {
	if decimals > types.MaxDecimals {
		return types.ErrInvalidAmount.Wrapf("decimals %d exceed %d", decimals, types.MaxDecimals)
	}
	if existing, found := k.GetToken(ctx, denom); found {
		if existing.Decimals != decimals {
			return types.ErrInvalidState.Wrapf("token %s already registered with %d decimals", denom, existing.Decimals)
		}
		return nil
	}
	if err := k.SetToken(ctx, types.TokenInfo{Denom: denom, Decimals: decimals}); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTokenRegistered,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyDecimals, fmt.Sprintf("%d", decimals)),
		),
	)
	return nil
}

// SetToken stores a token registry entry.
func (k Keeper) SetToken(ctx context.Context, token types.TokenInfo) error {
	bz, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("SetToken: marshal: %w", err)
	}
	k.getStore(ctx).Set(TokenKey(token.Denom), bz)
	return nil
}

// GetToken returns the registry entry for denom.
func (k Keeper) GetToken(ctx context.Context, denom string) (types.TokenInfo, bool) {
	bz := k.getStore(ctx).Get(TokenKey(denom))
	if bz == nil {
		return types.TokenInfo{}, false
	}
	var token types.TokenInfo
	if err := json.Unmarshal(bz, &token); err != nil {
		return types.TokenInfo{}, false
	}
	return token, true
}

// GetAllTokens returns the registry in denom order.
func (k Keeper) GetAllTokens(ctx context.Context) ([]types.TokenInfo, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), TokenKeyPrefix)
	defer iterator.Close()

	var tokens []types.TokenInfo
	for ; iterator.Valid(); iterator.Next() {
		var token types.TokenInfo
		if err := json.Unmarshal(iterator.Value(), &token); err != nil {
			return nil, fmt.Errorf("GetAllTokens: unmarshal: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// requireTokens returns the registry entries for a pair, failing if either is unknown.
func (k Keeper) requireTokens(ctx context.Context, denomA, denomB string) (types.TokenInfo, types.TokenInfo, error) {
	if denomA == denomB {
		return types.TokenInfo{}, types.TokenInfo{}, types.ErrInvalidTokenPair.Wrap("tokens must be different")
	}
	a, found := k.GetToken(ctx, denomA)
	if !found {
		return types.TokenInfo{}, types.TokenInfo{}, types.ErrTokenNotRegistered.Wrap(denomA)
	}
	b, found := k.GetToken(ctx, denomB)
	if !found {
		return types.TokenInfo{}, types.TokenInfo{}, types.ErrTokenNotRegistered.Wrap(denomB)
	}
	return a, b, nil
}

package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// GetPoolValue values a pool's reserves with the oracle price feed. Reserves are
// converted to whole tokens using each token's registered decimals.
func (k Keeper) GetPoolValue(ctx context.Context, tokenA, tokenB string) (math.LegacyDec, error) {
	if k.oracleKeeper == nil {
		return math.LegacyZeroDec(), types.ErrOraclePrice.Wrap("no price feed configured")
	}
	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	token0, token1, err := k.requireTokens(ctx, pool.Denom0, pool.Denom1)
	if err != nil {
		return math.LegacyZeroDec(), err
	}

	value0, err := k.reserveValue(ctx, pool.Amount0, token0)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	value1, err := k.reserveValue(ctx, pool.Amount1, token1)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	return value0.Add(value1), nil
}

func (k Keeper) reserveValue(ctx context.Context, reserve math.Int, token types.TokenInfo) (math.LegacyDec, error) {
	price, err := k.oracleKeeper.GetPrice(ctx, token.Denom)
	if err != nil {
		return math.LegacyZeroDec(), types.ErrOraclePrice.Wrapf("failed to get price for %s: %v", token.Denom, err)
	}
	if price.IsNil() || price.IsNegative() {
		return math.LegacyZeroDec(), types.ErrOraclePrice.Wrapf("invalid price for %s", token.Denom)
	}
	whole := math.LegacyNewDecFromInt(reserve).QuoInt(Pow10(token.Decimals))
	return whole.Mul(price), nil
}

package keeper

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// RegisterInvariants registers all DEX invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "module-account-balance", ModuleAccountBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-liquidity", PoolLiquidityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "order-book", OrderBookInvariant(k))
}

// AllInvariants runs all invariants of the DEX module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ModuleAccountBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolLiquidityInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return OrderBookInvariant(k)(ctx)
	}
}

// ModuleAccountBalanceInvariant checks that the module account holds at least
// everything it owes: pool reserves, fee vaults, protocol fees, order escrow and
// OTC escrow.
func ModuleAccountBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		owed := make(map[string]math.Int)
		add := func(denom string, amt math.Int) {
			if cur, ok := owed[denom]; ok {
				owed[denom] = cur.Add(amt)
			} else {
				owed[denom] = amt
			}
		}

		var msg string
		if err := k.IteratePools(ctx, func(pool types.Pool) bool {
			add(pool.Denom0, pool.Amount0.Add(pool.FeeVault0).Add(pool.ProtocolFees0))
			add(pool.Denom1, pool.Amount1.Add(pool.FeeVault1).Add(pool.ProtocolFees1))
			return false
		}); err != nil {
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}
		if err := k.IterateOrders(ctx, func(order types.ExchangeOrder) bool {
			add(order.EscrowDenom(), order.EscrowRemaining)
			return false
		}); err != nil {
			msg += fmt.Sprintf("iterate orders: %v\n", err)
		}
		otcOrders, err := k.GetOTCOrders(ctx)
		if err != nil {
			msg += fmt.Sprintf("iterate otc orders: %v\n", err)
		}
		for _, order := range otcOrders {
			add(order.QuoteDenom, order.Amount)
		}

		denoms := make([]string, 0, len(owed))
		for denom := range owed {
			denoms = append(denoms, denom)
		}
		sort.Strings(denoms)

		for _, denom := range denoms {
			balance := k.bankKeeper.GetBalance(ctx, k.moduleAddr, denom)
			if balance.Amount.LT(owed[denom]) {
				msg += fmt.Sprintf("module balance for %s (%s) < owed (%s)\n", denom, balance.Amount, owed[denom])
			}
		}

		broken := msg != ""
		return sdk.FormatInvariant(
			types.ModuleName, "module-account-balance",
			msg,
		), broken
	}
}

// PoolLiquidityInvariant checks that each pool's liquidity equals the sum of its
// positions and that a pool has reserves exactly when it has liquidity.
func PoolLiquidityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		pools, err := k.GetAllPools(ctx)
		if err != nil {
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		for _, pool := range pools {
			sum := math.ZeroInt()
			if err := k.IteratePositionsByPool(ctx, pool.Denom0, pool.Denom1, func(p types.LiquidityPosition) bool {
				sum = sum.Add(p.Liquidity)
				return false
			}); err != nil {
				msg += fmt.Sprintf("pool %s/%s: iterate positions: %v\n", pool.Denom0, pool.Denom1, err)
				continue
			}
			if !sum.Equal(pool.TotalLiquidity) {
				msg += fmt.Sprintf("pool %s/%s: total liquidity %s != sum of positions %s\n",
					pool.Denom0, pool.Denom1, pool.TotalLiquidity, sum)
			}
			emptyReserves := pool.Amount0.IsZero() && pool.Amount1.IsZero()
			if pool.TotalLiquidity.IsZero() != emptyReserves {
				msg += fmt.Sprintf("pool %s/%s: liquidity %s with reserves %s/%s\n",
					pool.Denom0, pool.Denom1, pool.TotalLiquidity, pool.Amount0, pool.Amount1)
			}
			if pool.Amount0.IsNegative() || pool.Amount1.IsNegative() {
				msg += fmt.Sprintf("pool %s/%s: negative reserves\n", pool.Denom0, pool.Denom1)
			}
		}

		broken := msg != ""
		return sdk.FormatInvariant(
			types.ModuleName, "pool-liquidity",
			msg,
		), broken
	}
}

// OrderBookInvariant checks that no exhausted or dust order rests on the book,
// that every stored order is reachable through its book index and that no
// pair's best bid meets or exceeds its best ask.
func OrderBookInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		store := k.getStore(ctx)
		pairs := make(map[[2]string]struct{})
		if err := k.IterateOrders(ctx, func(order types.ExchangeOrder) bool {
			pairs[[2]string{order.BaseDenom, order.QuoteDenom}] = struct{}{}
			if !order.RemainingAmount.IsPositive() {
				msg += fmt.Sprintf("order %d rests with remaining %s\n", order.UID, order.RemainingAmount)
			}
			if order.EscrowRemaining.IsNegative() {
				msg += fmt.Sprintf("order %d has negative escrow %s\n", order.UID, order.EscrowRemaining)
			}
			if !store.Has(BookKey(order)) {
				msg += fmt.Sprintf("order %d missing from book index\n", order.UID)
			}
			if info, found := k.GetToken(ctx, order.BaseDenom); found {
				if dust, err := isDust(order, info.Decimals); err != nil || dust {
					msg += fmt.Sprintf("order %d rests with %s %s worth no %s\n",
						order.UID, order.RemainingAmount, order.BaseDenom, order.QuoteDenom)
				}
			} else {
				msg += fmt.Sprintf("order %d has unregistered base %s\n", order.UID, order.BaseDenom)
			}
			return false
		}); err != nil {
			msg += fmt.Sprintf("iterate orders: %v\n", err)
		}

		sorted := make([][2]string, 0, len(pairs))
		for pair := range pairs {
			sorted = append(sorted, pair)
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i][0] != sorted[j][0] {
				return sorted[i][0] < sorted[j][0]
			}
			return sorted[i][1] < sorted[j][1]
		})
		for _, pair := range sorted {
			bid, hasBid, err := k.bestOrder(ctx, pair[0], pair[1], types.OrderSideBuy)
			if err != nil {
				msg += fmt.Sprintf("book %s/%s: %v\n", pair[0], pair[1], err)
				continue
			}
			ask, hasAsk, err := k.bestOrder(ctx, pair[0], pair[1], types.OrderSideSell)
			if err != nil {
				msg += fmt.Sprintf("book %s/%s: %v\n", pair[0], pair[1], err)
				continue
			}
			if hasBid && hasAsk && bid.Price.GTE(ask.Price) {
				msg += fmt.Sprintf("book %s/%s crossed: best bid %s >= best ask %s\n",
					pair[0], pair[1], bid.Price, ask.Price)
			}
		}

		broken := msg != ""
		return sdk.FormatInvariant(
			types.ModuleName, "order-book",
			msg,
		), broken
	}
}

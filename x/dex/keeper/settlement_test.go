package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

func TestApplySwapFee(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		feeBps   uint32
		afterFee int64
		fee      int64
	}{
		{"three percent", 10_000, 300, 9_700, 300},
		{"fee rounds up", 1, 300, 0, 1},
		{"fee rounds up on odd amount", 101, 300, 97, 4},
		{"zero fee", 12_345, 0, 12_345, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			afterFee, fee, err := keeper.ApplySwapFee(math.NewInt(tt.amount), tt.feeBps)
			require.NoError(t, err)
			require.Equal(t, tt.afterFee, afterFee.Int64())
			require.Equal(t, tt.fee, fee.Int64())
		})
	}
}

func TestGrossUpForFee(t *testing.T) {
	for _, want := range []int64{1, 97, 98, 9_700, 123_457} {
		gross, err := keeper.GrossUpForFee(math.NewInt(want), 300)
		require.NoError(t, err)

		afterFee, _, err := keeper.ApplySwapFee(gross, 300)
		require.NoError(t, err)
		require.True(t, afterFee.GTE(math.NewInt(want)), "gross %s nets %s < %d", gross, afterFee, want)

		lower, _, err := keeper.ApplySwapFee(gross.SubRaw(1), 300)
		require.NoError(t, err)
		require.True(t, lower.LT(math.NewInt(want)), "gross %s is not minimal", gross)
	}
}

func TestSplitFee(t *testing.T) {
	lp, protocol, err := keeper.SplitFee(math.NewInt(300), 7_500)
	require.NoError(t, err)
	require.Equal(t, int64(225), lp.Int64())
	require.Equal(t, int64(75), protocol.Int64())

	// The protocol keeps the rounding remainder.
	lp, protocol, err = keeper.SplitFee(math.NewInt(3), 7_500)
	require.NoError(t, err)
	require.Equal(t, int64(2), lp.Int64())
	require.Equal(t, int64(1), protocol.Int64())
}

func TestQuoteValue(t *testing.T) {
	// 1.5 SOUL (8 decimals) at 5 KCAL (10 decimals) each.
	value, err := keeper.QuoteValue(math.NewInt(150_000_000), math.NewInt(50_000_000_000), 8)
	require.NoError(t, err)
	require.Equal(t, "75000000000", value.String())

	// Dust rounds down to zero.
	value, err = keeper.QuoteValue(math.NewInt(1), math.NewInt(1), 8)
	require.NoError(t, err)
	require.True(t, value.IsZero())

	base, err := keeper.BaseForQuote(math.NewInt(75_000_000_000), math.NewInt(50_000_000_000), 8)
	require.NoError(t, err)
	require.Equal(t, "150000000", base.String())

	_, err = keeper.BaseForQuote(math.NewInt(1), math.ZeroInt(), 8)
	require.ErrorIs(t, err, types.ErrInvalidPrice)
}

func TestConstantProduct(t *testing.T) {
	out, err := keeper.ConstantProductOut(math.NewInt(1_000), math.NewInt(2_000), math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, int64(181), out.Int64()) // 2000*100/1100 = 181.8

	in, err := keeper.ConstantProductIn(math.NewInt(1_000), math.NewInt(2_000), math.NewInt(181))
	require.NoError(t, err)
	require.Equal(t, int64(100), in.Int64()) // ceil(1000*181/1819) = 100

	_, err = keeper.ConstantProductIn(math.NewInt(1_000), math.NewInt(2_000), math.NewInt(2_000))
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	_, err = keeper.ConstantProductOut(math.ZeroInt(), math.NewInt(2_000), math.NewInt(1))
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

func TestSafeMath(t *testing.T) {
	_, err := keeper.SafeSub(math.NewInt(1), math.NewInt(2))
	require.ErrorIs(t, err, types.ErrOverflow)

	_, err = keeper.SafeMulDiv(math.NewInt(1), math.NewInt(1), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrOverflow)

	ceil, err := keeper.SafeMulDivCeil(math.NewInt(10), math.NewInt(1), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(4), ceil.Int64())

	// Intermediates may exceed 256 bits as long as the result fits.
	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 200))
	res, err := keeper.SafeMulDiv(huge, huge, huge)
	require.NoError(t, err)
	require.True(t, res.Equal(huge))

	_, err = keeper.SafeAdd(math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 255)), math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 255)))
	require.Error(t, err)

	root, err := keeper.IntSqrt(math.NewInt(1_000), math.NewInt(4_000))
	require.NoError(t, err)
	require.Equal(t, int64(2_000), root.Int64())

	require.Equal(t, "100000000", keeper.Pow10(8).String())
}

package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// Settlement math shared by the order book, OTC desk and pools. Every division
// floors, so an output credited to a caller never exceeds what the formula
// entitles them to; inverse formulas that size an input round up instead.

var basisPoints = math.NewInt(types.BasisPoints)

// feePrecision scales the per-share fee accumulators.
var feePrecision = math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// Pow10 returns 10^decimals.
func Pow10(decimals uint32) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
}

// ApplySwapFee splits amountIn into the part that trades and the fee. The traded
// part is floor(amountIn * (10000 - feeBps) / 10000), so the fee rounds up.
func ApplySwapFee(amountIn math.Int, feeBps uint32) (afterFee, fee math.Int, err error) {
	afterFee, err = SafeMulDiv(amountIn, basisPoints.SubRaw(int64(feeBps)), basisPoints)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return afterFee, amountIn.Sub(afterFee), nil
}

// GrossUpForFee returns the smallest input whose after-fee part is at least
// afterFee.
func GrossUpForFee(afterFee math.Int, feeBps uint32) (math.Int, error) {
	return SafeMulDivCeil(afterFee, basisPoints, basisPoints.SubRaw(int64(feeBps)))
}

// SplitFee divides a collected fee between liquidity providers and the protocol.
// The LP part floors; the protocol keeps the remainder.
func SplitFee(fee math.Int, lpShareBps uint32) (lpFee, protocolFee math.Int, err error) {
	lpFee, err = SafeMulDiv(fee, math.NewInt(int64(lpShareBps)), basisPoints)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return lpFee, fee.Sub(lpFee), nil
}

// QuoteValue is the quote cost of baseAmount at price, where price is quote atomic
// units per whole base token.
func QuoteValue(baseAmount, price math.Int, baseDecimals uint32) (math.Int, error) {
	return SafeMulDiv(baseAmount, price, Pow10(baseDecimals))
}

// BaseForQuote is the largest base amount whose QuoteValue at price does not
// exceed quoteAmount.
func BaseForQuote(quoteAmount, price math.Int, baseDecimals uint32) (math.Int, error) {
	if !price.IsPositive() {
		return math.Int{}, types.ErrInvalidPrice.Wrap("price must be positive")
	}
	return SafeMulDiv(quoteAmount, Pow10(baseDecimals), price)
}

// ConstantProductOut is the output of trading amountIn into a reserveIn/reserveOut
// pool: floor(reserveOut * amountIn / (reserveIn + amountIn)).
func ConstantProductOut(reserveIn, reserveOut, amountIn math.Int) (math.Int, error) {
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no reserves")
	}
	denominator, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, err
	}
	return SafeMulDiv(reserveOut, amountIn, denominator)
}

// ConstantProductIn is the smallest input that makes ConstantProductOut yield at
// least amountOut: ceil(reserveIn * amountOut / (reserveOut - amountOut)).
func ConstantProductIn(reserveIn, reserveOut, amountOut math.Int) (math.Int, error) {
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("pool has no reserves")
	}
	if amountOut.GTE(reserveOut) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf("requested %s but pool holds %s", amountOut, reserveOut)
	}
	return SafeMulDivCeil(reserveIn, amountOut, reserveOut.Sub(amountOut))
}

// CheckMinimum rejects amounts below a configured floor.
func CheckMinimum(name string, amount, minimum math.Int) error {
	if amount.LT(minimum) {
		return types.ErrBelowMinimumQuantity.Wrapf("%s %s is below minimum %s", name, amount, minimum)
	}
	return nil
}

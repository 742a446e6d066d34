package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// SafeMath provides overflow-checked integer arithmetic for the exchange engines.
// Intermediate products are computed on big.Int so only results need to fit
// math.Int's 256-bit range.

const maxIntBits = 256

func toInt(result *big.Int, op string) (math.Int, error) {
	if result.BitLen() > maxIntBits {
		return math.Int{}, types.ErrOverflow.Wrapf("%s result exceeds %d bits", op, maxIntBits)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeAdd adds two math.Int values with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	return toInt(new(big.Int).Add(a.BigInt(), b.BigInt()), "addition")
}

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, types.ErrOverflow.Wrapf("underflow: cannot subtract %s from %s", b, a)
	}
	return a.Sub(b), nil
}

// SafeMulDiv performs floor((a * b) / c) with overflow protection
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return toInt(intermediate.Quo(intermediate, c.BigInt()), "mul-div")
}

// SafeMulDivCeil performs ceil((a * b) / c) for non-negative operands.
func SafeMulDivCeil(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	quo, rem := new(big.Int).QuoRem(intermediate, c.BigInt(), new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return toInt(quo, "mul-div")
}

// IntSqrt returns floor(sqrt(a * b)).
func IntSqrt(a, b math.Int) (math.Int, error) {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return toInt(product.Sqrt(product), "sqrt")
}

// product returns a * b as a big.Int, used for constant-product comparisons that may
// exceed math.Int's range.
func product(a, b math.Int) *big.Int {
	return new(big.Int).Mul(a.BigInt(), b.BigInt())
}

package simulation

import (
	"fmt"
	"math/rand"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/paw-chain/dexchain/x/dex/keeper"
)

// SelectOperation picks an operation with probability proportional to its weight.
func SelectOperation(r *rand.Rand, ops []WeightedOperation) WeightedOperation {
	total := 0
	for _, op := range ops {
		total += op.Weight
	}
	n := r.Intn(total)
	for _, op := range ops {
		if n < op.Weight {
			return op
		}
		n -= op.Weight
	}
	return ops[len(ops)-1]
}

// Run applies n random operations in sequence and checks every invariant after
// each one. It stops at the first broken invariant.
func Run(r *rand.Rand, ctx sdk.Context, k keeper.Keeper, ops []WeightedOperation, accs []simtypes.Account, n int) ([]OperationMsg, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("no operations enabled")
	}
	if len(accs) == 0 {
		return nil, fmt.Errorf("no simulation accounts")
	}

	invariants := keeper.AllInvariants(k)
	results := make([]OperationMsg, 0, n)
	for i := 0; i < n; i++ {
		op := SelectOperation(r, ops)
		msg, err := op.Op(r, ctx, accs)
		if err != nil {
			return results, fmt.Errorf("operation %d (%s): %w", i, op.Name, err)
		}
		results = append(results, msg)

		if report, broken := invariants(ctx); broken {
			return results, fmt.Errorf("operation %d (%s) broke an invariant: %s", i, op.Name, report)
		}
	}
	return results, nil
}

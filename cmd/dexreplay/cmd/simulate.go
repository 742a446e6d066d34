package cmd

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagSeed     = "seed"
	flagOps      = "ops"
	flagAccounts = "accounts"
	flagFund     = "fund"
	flagBlocks   = "blocks"
	flagWeights  = "weights"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run seeded random exchange operations and print the app hash",
		Example: `  dexreplay simulate --seed 7 --ops 500
  DEXREPLAY_SEED=7 dexreplay simulate --fund 1000000000soul,1000000000kcal,1000000000gold`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v)
			if err != nil {
				return err
			}

			blocks := v.GetInt(flagBlocks)
			if blocks <= 0 {
				blocks = 1
			}
			perBlock := v.GetInt(flagOps) / blocks

			// Each block is one simulate burst followed by a commit; the seed
			// advances per block so bursts differ but stay reproducible.
			sc := &Scenario{}
			for b := 0; b < blocks; b++ {
				sc.Steps = append(sc.Steps,
					Step{Op: "simulate", Args: map[string]interface{}{
						"seed":     v.GetInt64(flagSeed) + int64(b),
						"count":    perBlock,
						"accounts": v.GetInt(flagAccounts),
						"fund":     v.GetStringSlice(flagFund),
						"weights":  cast.ToStringMap(v.Get(flagWeights)),
					}},
					Step{Op: "commit"},
				)
			}

			report, err := Replay(sc, logger)
			if err != nil {
				return err
			}
			if !v.GetBool(flagSteps) {
				report.Steps = nil
			}
			return WriteReport(cmd.OutOrStdout(), v.GetString(flagOutput), report)
		},
	}

	cmd.Flags().Int64(flagSeed, 1, "random seed")
	cmd.Flags().Int(flagOps, 200, "total number of operations")
	cmd.Flags().Int(flagAccounts, 5, "number of random accounts")
	cmd.Flags().Int(flagBlocks, 4, "number of blocks to spread the operations over")
	cmd.Flags().StringSlice(flagFund, []string{"1000000000kcal", "1000000000soul", "1000000000gold"}, "opening balance of every account")
	cmd.Flags().Bool(flagSteps, false, "include per-block results in the report")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReplayCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [scenario-file]",
		Short: "Replay a scenario file and print the app hash",
		Example: `  dexreplay replay scenario.yaml
  dexreplay replay scenario.json -o json --steps=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v)
			if err != nil {
				return err
			}

			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			report, err := Replay(sc, logger)
			if err != nil {
				return err
			}
			if !v.GetBool(flagSteps) {
				report.Steps = nil
			}

			if err := WriteReport(cmd.OutOrStdout(), v.GetString(flagOutput), report); err != nil {
				return err
			}
			if report.Mismatches > 0 {
				return fmt.Errorf("%d step(s) did not match their expectation", report.Mismatches)
			}
			return nil
		},
	}

	cmd.Flags().Bool(flagSteps, true, "include per-step results in the report")
	return cmd
}

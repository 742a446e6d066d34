package cmd

import (
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagConfig   = "config"
	flagOutput   = "output"
	flagLogLevel = "log-level"
	flagSteps    = "steps"

	envPrefix = "DEXREPLAY"
)

// NewRootCmd creates the dexreplay root command. Settings resolve in the order
// flags, DEXREPLAY_* environment variables, config file, defaults.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "dexreplay",
		Short: "Replay exchange scenarios against an in-memory dex state machine",
		Long: `dexreplay applies a scenario of exchange operations (orders, OTC, pools,
swaps, fee claims) to a fresh in-memory chain and prints the resulting app hash
and a state summary. Replaying the same scenario twice must print the same hash.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", "yaml", "report format: yaml or json")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (e.g. info, debug, x/dex:debug,*:error)")

	rootCmd.AddCommand(
		newReplayCmd(v),
		newSimulateCmd(v),
	)
	return rootCmd
}

func initConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(v *viper.Viper) (log.Logger, error) {
	filter, err := log.ParseLogLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewLogger(os.Stderr, log.FilterOption(filter), log.ColorOption(false)), nil
}

// rpcfatigue runs the durability pipeline over RPC-III measurement files:
// rainflow counting, cumulative damage curves, level-crossing distributions
// and equivalent block signals, with optional cross-event aggregation driven
// by an event-set file.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rpcfatigue",
	Short: "Fatigue analysis of RPC-III time histories",
	Long: `rpcfatigue decodes RPC-III measurement files and derives the artifacts used
in durability work: rainflow range counts and Miner damage per channel,
cumulative cycle and damage curves, level-crossing distributions and reduced
equivalent block signals. An event-set YAML file combines channels across
several recordings with per-file repetition counts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(rainflowCmd, cumulativeCmd, levelcrossCmd, eqsigCmd, combineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

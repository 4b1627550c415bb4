package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/galuszkm/rpc3/fatigue"
)

var cumulativeCmd = &cobra.Command{
	Use:   "cumulative FILE...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Print cumulative cycle and damage curves per channel",
	RunE:  runCumulative,
}

var levelcrossCmd = &cobra.Command{
	Use:   "levelcross FILE...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Print the cumulative level-crossing distribution per channel",
	RunE:  runLevelcross,
}

var eqsigCmd = &cobra.Command{
	Use:   "eqsig FILE...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Reduce each channel to an equivalent block signal",
	RunE:  runEqsig,
}

func init() {
	cumulativeCmd.Flags().Float64("slope", 5, "Wöhler slope")
	cumulativeCmd.Flags().Float64("gate", 0, "gate in percent of the max range")
	cumulativeCmd.Flags().Float64("repeats", 1, "repetition count applied to all channels")

	levelcrossCmd.Flags().Float64("repeats", 1, "repetition count applied to all channels")
	levelcrossCmd.Flags().Int("bins", 0, "levels per histogram region (0 for default)")

	eqsigCmd.Flags().Float64("slope", 5, "Wöhler slope")
	eqsigCmd.Flags().Float64("repeats", 1, "repetition count applied to all channels")
	eqsigCmd.Flags().Int("blocks", 5, "number of blocks")
	eqsigCmd.Flags().Float64("min-cycles", 1e5, "repetition floor of the block signal")
}

func runCumulative(cmd *cobra.Command, args []string) error {
	slope, _ := cmd.Flags().GetFloat64("slope")
	gate, _ := cmd.Flags().GetFloat64("gate")
	repeats, _ := cmd.Flags().GetFloat64("repeats")

	for _, path := range args {
		f, err := parseFile(path)
		if err != nil {
			return err
		}
		for _, c := range f.Channels() {
			if err := c.Rainflow(repeats, true, 0); err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			cum := fatigue.CumulativeRainflowData(c.RangeCounts(), slope, gate)
			fmt.Printf("%s  channel %d (%s), total damage %.6e\n", path, c.Number, c.Name, cum.TotalDamage)
			fmt.Printf("  %14s %14s %14s\n", "range", "ncum", "dcum%")
			for i := range cum.NCum {
				rng := 0.0
				if i < len(cum.Range) {
					rng = cum.Range[i]
				}
				fmt.Printf("  %14.6f %14.2f %14.4f\n", rng, cum.NCum[i], cum.DCum[i])
			}
		}
	}
	return nil
}

func runLevelcross(cmd *cobra.Command, args []string) error {
	repeats, _ := cmd.Flags().GetFloat64("repeats")
	bins, _ := cmd.Flags().GetInt("bins")

	for _, path := range args {
		f, err := parseFile(path)
		if err != nil {
			return err
		}
		for _, c := range f.Channels() {
			if err := c.Rainflow(repeats, true, 0); err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			lcCum, lcLevel, err := fatigue.LevelCrossing(
				[][]float64{c.Cycles()}, []float64{repeats}, bins)
			if err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			fmt.Printf("%s  channel %d (%s)\n", path, c.Number, c.Name)
			fmt.Printf("  %14s %14s\n", "level", "crossings")
			for i := range lcCum {
				fmt.Printf("  %14.6f %14.2f\n", lcLevel[i], lcCum[i])
			}
		}
	}
	return nil
}

func runEqsig(cmd *cobra.Command, args []string) error {
	slope, _ := cmd.Flags().GetFloat64("slope")
	repeats, _ := cmd.Flags().GetFloat64("repeats")
	blocks, _ := cmd.Flags().GetInt("blocks")
	minCycles, _ := cmd.Flags().GetFloat64("min-cycles")

	for _, path := range args {
		f, err := parseFile(path)
		if err != nil {
			return err
		}
		for _, c := range f.Channels() {
			if err := c.Rainflow(repeats, true, 0); err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			sig, err := fatigue.EqDmgSignal(
				[][]float64{c.Cycles()}, []float64{repeats}, blocks, minCycles, slope)
			if err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			fmt.Printf("%s  channel %d (%s)\n", path, c.Number, c.Name)
			printBlocks(sig)
		}
	}
	return nil
}

// printBlocks renders an equivalent block signal as a table.
func printBlocks(sig []fatigue.Block) {
	fmt.Printf("  %14s %14s %14s %10s %14s\n", "range", "mean", "repetitions", "damage%", "adj mean")
	for _, b := range sig {
		fmt.Printf("  %14.6f %14.6f %14.2f %10.4f %14.6f\n",
			b.Range, b.Mean, b.Repetition, b.PercentDamage, b.AdjustedMean)
	}
}

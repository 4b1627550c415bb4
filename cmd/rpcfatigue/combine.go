package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/galuszkm/rpc3"
	"github.com/galuszkm/rpc3/fatigue"
)

var combineCmd = &cobra.Command{
	Use:   "combine EVENTSET",
	Args:  cobra.ExactArgs(1),
	Short: "Aggregate channels across the events of a load schedule",
	Long: `combine reads an event-set YAML file, decodes every measurement it names and
merges the rainflow results of channels sharing a name. Residues stay open per
recording and are joined, repeated per event, and closed across the whole
schedule; the combined range counts feed the cumulative damage table. With
--eqsig the closed cycles of each channel group are also reduced to an
equivalent block signal.`,
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().Int("blocks", 5, "number of blocks of the equivalent signal")
	combineCmd.Flags().Float64("min-cycles", 1e5, "repetition floor of the block signal")
	combineCmd.Flags().Bool("eqsig", false, "also build an equivalent block signal per group")
}

func runCombine(cmd *cobra.Command, args []string) error {
	blocks, _ := cmd.Flags().GetInt("blocks")
	minCycles, _ := cmd.Flags().GetFloat64("min-cycles")
	withEqsig, _ := cmd.Flags().GetBool("eqsig")

	set, err := loadEventSet(args[0])
	if err != nil {
		return err
	}
	files, events, err := set.loadFiles()
	if err != nil {
		return err
	}

	names, groups := channelGroups(files)
	for _, name := range names {
		group := groups[name]

		// Count every channel with its event weight; residues stay open so
		// the aggregator can close them across the schedule.
		for _, c := range group {
			reps := repetitionsOf(events, c.FileHash)
			if err := c.Rainflow(float64(reps), false, 0); err != nil {
				return errors.Wrapf(err, "channel %q of %s", name, c.FileName)
			}
		}
		residualCycles, rangeCounts, err := rpc3.CombineChannelsRangeCounts(group, events)
		if err != nil {
			return errors.Wrapf(err, "channel group %q", name)
		}

		cum := fatigue.CumulativeRainflowData(rangeCounts, set.Slope, set.Gate)
		fmt.Printf("%s: %d recordings, %d distinct ranges, total damage %.6e\n",
			name, len(group), len(cum.NCum)-1, cum.TotalDamage)

		if !withEqsig {
			continue
		}
		// Each channel contributes its closed cycles with its own weight;
		// the cross-event residual cycles count once.
		rfList := make([][]float64, 0, len(group)+1)
		repetitions := make([]float64, 0, len(group)+1)
		for _, c := range group {
			rfList = append(rfList, c.Cycles())
			repetitions = append(repetitions, float64(repetitionsOf(events, c.FileHash)))
		}
		if len(residualCycles) > 0 {
			rfList = append(rfList, residualCycles)
			repetitions = append(repetitions, 1)
		}
		sig, err := fatigue.EqDmgSignal(rfList, repetitions, blocks, minCycles, set.Slope)
		if err != nil {
			logger.Warn().Err(err).Str("channel", name).Msg("equivalent signal skipped")
			continue
		}
		printBlocks(sig)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/galuszkm/rpc3"
)

var rainflowCmd = &cobra.Command{
	Use:   "rainflow FILE...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Count cycles and report Miner damage per channel",
	RunE:  runRainflow,
}

func init() {
	rainflowCmd.Flags().Float64("slope", 5, "Wöhler slope")
	rainflowCmd.Flags().Float64("repeats", 1, "repetition count applied to all channels")
	rainflowCmd.Flags().Bool("open", false, "leave the residue open instead of closing it")
	rainflowCmd.Flags().Int("bins", 0, "reversal quantization bins (0 for default)")
	rainflowCmd.Flags().Bool("counts", false, "print the full range-count table")
}

func runRainflow(cmd *cobra.Command, args []string) error {
	slope, _ := cmd.Flags().GetFloat64("slope")
	repeats, _ := cmd.Flags().GetFloat64("repeats")
	open, _ := cmd.Flags().GetBool("open")
	bins, _ := cmd.Flags().GetInt("bins")
	withCounts, _ := cmd.Flags().GetBool("counts")

	for _, path := range args {
		f, err := parseFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", path, f.Size())
		for _, c := range f.Channels() {
			if err := c.Rainflow(repeats, !open, bins); err != nil {
				return errors.Wrapf(err, "channel %d", c.Number)
			}
			fmt.Printf("  %4d  %-24s cycles=%-8d residue=%-5d damage=%.6e\n",
				c.Number, c.Name, len(c.Cycles())/2, len(c.Residue()), c.Damage(slope))
			if withCounts {
				rc := c.RangeCounts()
				for i := 0; i+1 < len(rc); i += 2 {
					fmt.Printf("        %14.6f %12.2f\n", rc[i], rc[i+1])
				}
			}
		}
	}
	return nil
}

// parseFile reads and decodes one RPC-III file.
func parseFile(path string) (*rpc3.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	f := rpc3.NewFile(data, path, rpc3.WithLogger(logger))
	if !f.Parse() {
		for _, e := range f.Errs() {
			logger.Error().Msg(e)
		}
		return nil, errors.Errorf("decoding %q failed", path)
	}
	return f, nil
}

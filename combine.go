package rpc3

import (
	"github.com/pkg/errors"

	"github.com/galuszkm/rpc3/rainflow"
)

// An Event maps a source file to the number of times its measurement repeats
// within a load schedule. Events are read-only inputs to the aggregator.
type Event struct {
	// Human-readable event name.
	Name string
	// Identifier of the file this event repeats, matching Channel.FileHash.
	FileHash string
	// How many times the measurement repeats. Must be positive.
	Repetitions int
}

// repetitionsFor returns the repetition count of the event matching hash, or
// 1 when no event covers it.
func repetitionsFor(events []Event, hash string) int {
	for _, e := range events {
		if e.FileHash == hash {
			return e.Repetitions
		}
	}
	return 1
}

// CombineChannelsRangeCounts merges the rainflow results of channels that
// carry the same quantity across several recordings. Every channel must
// already have been counted with its own repetition weight and with the
// residue left open.
//
// The per-channel range counts are concatenated, the residues are joined into
// one reversal sequence with each residue repeated per its event, and the
// joined sequence is counted with residue closure. The cycles closed by that
// pass are returned so a builder can treat them as one more cycle source; the
// combined range counts include them with unit weight.
func CombineChannelsRangeCounts(channels []*Channel, events []Event) (residualCycles, rangeCounts []float64, err error) {
	var combined []float64
	var joined []float64
	for _, c := range channels {
		combined = append(combined, c.rangeCounts...)
		if len(c.residue) < 2 {
			continue
		}
		reps := repetitionsFor(events, c.FileHash)
		for r := 0; r < reps; r++ {
			if joined == nil {
				joined = append([]float64(nil), c.residue...)
				continue
			}
			joined, err = rainflow.ConcatenateReversals(joined, c.residue)
			if err != nil {
				return nil, nil, errors.Wrap(err, "rpc3.CombineChannelsRangeCounts")
			}
		}
	}

	if len(joined) >= 2 {
		res, err := rainflow.Count(joined, true, 0)
		if err != nil {
			return nil, nil, errors.Wrap(err, "rpc3.CombineChannelsRangeCounts")
		}
		residualCycles = res.Cycles
		combined = append(combined, rainflow.CountRangeCycles(residualCycles, 1)...)
	}

	return residualCycles, rainflow.CountUniqueRanges(combined), nil
}

package fatigue

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/galuszkm/rpc3/internal/dsp"
)

// A Block is one row of an equivalent block signal: a constant-amplitude
// cycle block that stands in for a slice of the rainflow histogram.
type Block struct {
	// Cycle range of the block.
	Range float64
	// Mean load of the cycles the block replaces.
	Mean float64
	// Number of repetitions reproducing the block damage at this range.
	Repetition float64
	// Share of the total damage, in percent.
	PercentDamage float64
	// Miner damage carried by the block.
	BlockDamage float64
	// Mean after clipping into the signal envelope.
	AdjustedMean float64
}

// scaleStep is the decrement applied to the range scale per iteration while
// raising the repetition count toward the cycle floor.
const scaleStep = 1e-4

// EqDmgSignal compresses the cycle sequences into an ordered sequence of
// blocksNumber blocks whose summed Miner damage reproduces the input total.
// Block boundaries come from a maximum-rectangle search over the
// range-ascending cycle table; block ranges are then scaled down step by step
// until the blocks carry at least minNumOfCycles repetitions, and block means
// are clipped into the signal envelope. The result is ordered by range
// descending.
//
// The input histogram must carry at least minNumOfCycles repetition-weighted
// cycles.
func EqDmgSignal(rfList [][]float64, repetitions []float64, blocksNumber int, minNumOfCycles, slope float64) ([]Block, error) {
	if blocksNumber < 1 {
		return nil, errors.Errorf("fatigue.EqDmgSignal: block count %d is not positive", blocksNumber)
	}
	t, err := NewTable(rfList, repetitions, slope)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, errors.Errorf("fatigue.EqDmgSignal: no cycles to reduce")
	}
	if total := t.TotalRepetitions(); total < minNumOfCycles {
		return nil, errors.Errorf("fatigue.EqDmgSignal: signal has %g cycles; %g required", total, minNumOfCycles)
	}
	t.SortByRange()

	bounds := partitionBlocks(t, blocksNumber)
	blocks := buildBlocks(t, bounds, slope)
	scaleToCycleFloor(t, blocks, minNumOfCycles, slope)
	clipMeans(blocks)

	// Highest range first.
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return blocks, nil
}

// partitionBlocks splits the sorted table into blocksNumber contiguous index
// intervals. Each round places one division at the maximum-rectangle point:
// the cycle index maximising accumulated-block-damage times the headroom
// between that cycle's range and the table maximum. The ranges of the cycles
// below the division are raised by the rectangle height, which reshapes the
// table for the following rounds.
//
// The returned boundary list is sorted; interval k spans the table indices
// (bounds[k], bounds[k+1]].
func partitionBlocks(t *Table, blocksNumber int) []int {
	n := t.Len()
	maxRange := t.Range[n-1]
	bounds := []int{-1, n - 1}
	for round := 1; round < blocksNumber; round++ {
		bestScore := math.Inf(-1)
		bestDiv := -1
		bestHeight := 0.0
		bestLo := -1
		for b := 0; b+1 < len(bounds); b++ {
			lo, hi := bounds[b], bounds[b+1]
			damage := 0.0
			for a := lo + 1; a <= hi; a++ {
				damage += t.DamageOfCycle[a]
				score := damage * (maxRange - t.Range[a])
				if score > bestScore {
					bestScore = score
					bestDiv = a
					bestHeight = maxRange - t.Range[a]
					bestLo = lo
				}
			}
		}
		if bestDiv < 0 {
			break
		}
		for a := bestLo + 1; a <= bestDiv; a++ {
			t.Range[a] += bestHeight
		}
		bounds = append(bounds, bestDiv)
		sort.Ints(bounds)
	}
	return bounds
}

// buildBlocks folds every boundary interval into one block. The block range
// is the last (largest) range of the interval and the block mean averages the
// cycle midpoints.
func buildBlocks(t *Table, bounds []int, slope float64) []Block {
	blocks := make([]Block, 0, len(bounds)-1)
	for b := 0; b+1 < len(bounds); b++ {
		lo, hi := bounds[b], bounds[b+1]
		var blk Block
		if hi > lo {
			var meanSum float64
			for i := lo + 1; i <= hi; i++ {
				blk.BlockDamage += t.DamageOfCycle[i]
				meanSum += t.MaxOfCycle[i] - t.Range[i]/2
			}
			blk.Range = t.Range[hi]
			blk.Mean = meanSum / float64(hi-lo)
			if blk.Range > 0 {
				blk.Repetition = blk.BlockDamage / math.Pow(blk.Range, slope)
			}
			blk.PercentDamage = 100 * blk.BlockDamage / t.TotalDamage
			blk.AdjustedMean = blk.Mean
		}
		blocks = append(blocks, blk)
	}
	return blocks
}

// scaleToCycleFloor shrinks the block ranges until the summed repetitions
// reach minNumOfCycles. The first block scales unconditionally; a middle
// block follows only while its scaled range stays above the midpoint between
// its own and its lower neighbour's initial range; the last block is pinned
// to the full signal envelope.
func scaleToCycleFloor(t *Table, blocks []Block, minNumOfCycles, slope float64) {
	snapshot := make([]Block, len(blocks))
	copy(snapshot, blocks)
	globalMin, _ := dsp.MinMax(t.MinOfCycle)
	_, globalMax := dsp.MinMax(t.MaxOfCycle)

	totalReps := func() float64 {
		var sum float64
		for _, b := range blocks {
			sum += b.Repetition
		}
		return sum
	}

	scale := 1.0
	for totalReps() <= minNumOfCycles && scale > 0 {
		scale -= scaleStep

		blocks[0].Range *= scale
		for k := 1; k+1 < len(blocks); k++ {
			candidate := blocks[k].Range * scale
			mid := (snapshot[k-1].Range + snapshot[k].Range) / 2
			if candidate >= mid {
				blocks[k].Range = candidate
			}
		}
		last := &blocks[len(blocks)-1]
		last.Range = globalMax - globalMin
		last.Mean = globalMax
		last.AdjustedMean = globalMax - last.Range/2

		for k := range blocks {
			if blocks[k].Range == 0 {
				continue
			}
			blocks[k].Repetition = blocks[k].BlockDamage / math.Pow(blocks[k].Range, slope)
			blocks[k].PercentDamage = 100 * blocks[k].BlockDamage / t.TotalDamage
		}
	}
}

// clipMeans pulls every block's adjusted mean inward so the block stays
// inside the envelope spanned by the last block.
func clipMeans(blocks []Block) {
	last := blocks[len(blocks)-1]
	signalMin := last.Mean - last.Range
	signalMax := last.Mean
	for k := range blocks {
		b := &blocks[k]
		if b.AdjustedMean-b.Range/2 < signalMin {
			b.AdjustedMean = b.Range/2 + signalMin
		}
		if b.AdjustedMean+b.Range/2 > signalMax {
			b.AdjustedMean = signalMax - b.Range/2
		}
	}
}

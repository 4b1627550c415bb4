package fatigue

import (
	"github.com/pkg/errors"

	"github.com/galuszkm/rpc3/internal/dsp"
)

// DefaultLevelBins is the per-region bin count used when the caller passes
// one below two.
const DefaultLevelBins = 256

// LevelCrossing builds the cumulative level-crossing distribution of the
// cycle sequences. Every cycle contributes its maximum and minimum with its
// repetition weight; levels run from the global minimum through the weighted
// mean to the global maximum in two regions of binCount edges each.
//
// The low region accumulates left-to-right and the high region right-to-left,
// so the count is largest near the mean. The fused curve carries a sentinel
// count of 1 at both ends (at the minimum and maximum level) and lists the
// mean level twice at the seam, which keeps every step drawable on a
// logarithmic count axis.
func LevelCrossing(rfList [][]float64, repetitions []float64, binCount int) (lcCum, lcLevel []float64, err error) {
	if binCount < 2 {
		binCount = DefaultLevelBins
	}
	t, err := NewTable(rfList, repetitions, 1)
	if err != nil {
		return nil, nil, err
	}
	if t.Len() == 0 {
		return nil, nil, errors.Errorf("fatigue.LevelCrossing: no cycles to count")
	}

	// 2N samples: the cycle maxima then the cycle minima, weights matching.
	vals := make([]float64, 0, 2*t.Len())
	vals = append(vals, t.MaxOfCycle...)
	vals = append(vals, t.MinOfCycle...)
	weights := make([]float64, 0, 2*t.Len())
	weights = append(weights, t.CycleRepets...)
	weights = append(weights, t.CycleRepets...)

	var vw, w float64
	for i, v := range vals {
		vw += v * weights[i]
		w += weights[i]
	}
	mean := vw / w
	min, _ := dsp.MinMax(t.MinOfCycle)
	_, max := dsp.MinMax(t.MaxOfCycle)

	lowEdges := dsp.Linspace(min, mean, binCount)
	highEdges := dsp.Linspace(mean, max, binCount)
	lowHist := weightedHistogram(vals, weights, lowEdges)
	highHist := weightedHistogram(vals, weights, highEdges)

	// Fuse: sentinel, low region cumulated upward, high region cumulated
	// downward, sentinel.
	lcCum = make([]float64, 0, 2*binCount)
	lcLevel = make([]float64, 0, 2*binCount)
	lcCum = append(lcCum, 1)
	lcLevel = append(lcLevel, lowEdges[0])
	run := 0.0
	for j := 0; j < binCount-1; j++ {
		run += lowHist[j]
		lcCum = append(lcCum, run)
		lcLevel = append(lcLevel, lowEdges[j+1])
	}
	down := make([]float64, binCount-1)
	run = 0.0
	for j := binCount - 2; j >= 0; j-- {
		run += highHist[j]
		down[j] = run
	}
	for j := 0; j < binCount-1; j++ {
		lcCum = append(lcCum, down[j])
		lcLevel = append(lcLevel, highEdges[j])
	}
	lcCum = append(lcCum, 1)
	lcLevel = append(lcLevel, highEdges[binCount-1])
	return lcCum, lcLevel, nil
}

// weightedHistogram bins vals into the intervals between consecutive edges,
// adding each sample's weight to its containing bin. Samples outside the edge
// span are ignored; a sample on the last edge counts into the last bin.
func weightedHistogram(vals, weights, edges []float64) []float64 {
	hist := make([]float64, len(edges)-1)
	for i, v := range vals {
		if v < edges[0] || v > edges[len(edges)-1] {
			continue
		}
		j := len(edges) - 2
		for k := 0; k+1 < len(edges); k++ {
			if v < edges[k+1] {
				j = k
				break
			}
		}
		hist[j] += weights[i]
	}
	return hist
}

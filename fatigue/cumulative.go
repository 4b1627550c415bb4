package fatigue

import (
	"math"
	"sort"
)

// Cumulative holds the step-function form of a gated range-count sequence.
// NCum and DCum are one longer than Range's distinct-range count, carrying a
// leading sentinel point (1, 0) so the curves start at one cycle and zero
// damage on logarithmic axes. Range duplicates its first element so that it
// aligns with them as a step function.
type Cumulative struct {
	Range       []float64
	NCum        []float64
	DCum        []float64
	TotalDamage float64
}

// CumulativeRainflowData turns a range-count sequence into cumulative cycle
// and damage-percent curves. Pairs whose range does not exceed
// maxRange*gatePercent/100 are discarded, duplicates are merged and the
// remainder is ordered by range descending.
func CumulativeRainflowData(rangeCounts []float64, slope, gatePercent float64) *Cumulative {
	maxRange := math.Inf(-1)
	for i := 0; i+1 < len(rangeCounts); i += 2 {
		if rangeCounts[i] > maxRange {
			maxRange = rangeCounts[i]
		}
	}
	gate := maxRange * gatePercent / 100

	counts := make(map[float64]float64)
	for i := 0; i+1 < len(rangeCounts); i += 2 {
		if rangeCounts[i] > gate {
			counts[rangeCounts[i]] += rangeCounts[i+1]
		}
	}
	ranges := make([]float64, 0, len(counts))
	for r := range counts {
		ranges = append(ranges, r)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranges)))

	out := &Cumulative{
		NCum: make([]float64, 1, len(ranges)+1),
		DCum: make([]float64, 1, len(ranges)+1),
	}
	out.NCum[0] = 1
	out.DCum[0] = 0
	for _, r := range ranges {
		out.TotalDamage += math.Pow(r, slope) * counts[r]
	}

	if len(ranges) == 0 {
		return out
	}
	out.Range = make([]float64, 0, len(ranges)+1)
	out.Range = append(out.Range, ranges[0])
	var ncum, dcum float64
	for _, r := range ranges {
		ncum += counts[r]
		dcum += 100 * math.Pow(r, slope) * counts[r] / out.TotalDamage
		out.Range = append(out.Range, r)
		out.NCum = append(out.NCum, ncum)
		out.DCum = append(out.DCum, dcum)
	}
	return out
}

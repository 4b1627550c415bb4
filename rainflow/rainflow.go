// Package rainflow implements rainflow cycle counting of load-time histories:
// bin-quantized reversal extraction, four-point closed-cycle extraction with
// residue, residue closure and range-count aggregation.
package rainflow

import (
	"github.com/pkg/errors"

	"github.com/galuszkm/rpc3/internal/dsp"
)

// DefaultBins is the reversal quantization bin budget used when the caller
// passes a non-positive one.
const DefaultBins = 4096

// A Result holds the output of one counting run over a signal.
type Result struct {
	// Reversal values, in signal order.
	Reversals []float64
	// Position of each reversal in the input signal.
	Indices []int
	// Closed cycles as flattened [start1,end1,start2,end2,...] pairs.
	Cycles []float64
	// Open reversals left on the stack after four-point extraction.
	Residue []float64
}

// Count runs rainflow counting on samples. Reversals are detected on a signal
// quantized to k bins (DefaultBins if k < 1). With closeResiduals set, the
// residue is concatenated with itself and counted again; the extra closed
// cycles extend Cycles while Residue itself is kept open for cross-event
// aggregation.
func Count(samples []float64, closeResiduals bool, k int) (*Result, error) {
	if k < 1 {
		k = DefaultBins
	}
	res := &Result{}
	res.Reversals, res.Indices = reversals(samples, k)
	res.Cycles, res.Residue = extractCycles(res.Reversals)

	if closeResiduals && len(res.Residue) >= 2 {
		joined, err := ConcatenateReversals(res.Residue, res.Residue)
		if err != nil {
			return nil, err
		}
		extra, _ := extractCycles(joined)
		res.Cycles = append(res.Cycles, extra...)
	}
	return res, nil
}

// reversals detects the turning points of s on a grid of k bins. Each sample
// is replaced by the midpoint of its bin before the direction test, which
// suppresses sub-bin noise. It returns the reversal values and their
// positions in s.
func reversals(s []float64, k int) ([]float64, []int) {
	n := len(s)
	if n < 2 {
		vals := make([]float64, n)
		copy(vals, s)
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return vals, idx
	}
	min, max := dsp.MinMax(s)
	if min == max {
		return []float64{s[0], s[n-1]}, []int{0, n - 1}
	}

	// Bin boundaries reach half a bin beyond the signal extremes so that the
	// midpoints of the outermost bins land exactly on min and max.
	dy := (max - min) / float64(2*k)
	bounds := dsp.Linspace(min-dy, max+dy, k+2)
	width := bounds[1] - bounds[0]
	mids := make([]float64, k+2)
	for i, b := range bounds {
		mids[i] = b + width/2
	}

	z := make([]float64, n)
	for j, x := range s {
		bin := int((x - bounds[0]) / width)
		if bin < 0 {
			bin = 0
		} else if bin > k+1 {
			bin = k + 1
		}
		z[j] = mids[bin]
	}

	// Keep the last position of every constant run, then the run after the
	// final change terminates the candidate sequence.
	var cand []int
	for j := 0; j+1 < n; j++ {
		if z[j+1] != z[j] {
			cand = append(cand, j)
		}
	}
	if len(cand) == 0 {
		return []float64{z[0], z[n-1]}, []int{0, n - 1}
	}
	cand = append(cand, cand[len(cand)-1]+1)

	// A candidate is a reversal when the slope changes sign across it. The
	// first and last candidates terminate the sequence and are always kept.
	vals := []float64{z[cand[0]]}
	idx := []int{cand[0]}
	for i := 1; i+1 < len(cand); i++ {
		prev := z[cand[i-1]]
		cur := z[cand[i]]
		next := z[cand[i+1]]
		if (cur-prev)*(next-cur) < 0 {
			vals = append(vals, cur)
			idx = append(idx, cand[i])
		}
	}
	last := cand[len(cand)-1]
	vals = append(vals, z[last])
	idx = append(idx, last)
	return vals, idx
}

// extractCycles runs the four-point rule over the reversal sequence. It
// returns the closed cycles as flattened pairs and the leftover stack as the
// residue.
func extractCycles(revs []float64) (cycles, residue []float64) {
	stack := make([]float64, 0, len(revs))
	for _, r := range revs {
		stack = append(stack, r)
		for len(stack) >= 4 {
			n := len(stack)
			s0, s1, s2, s3 := stack[n-4], stack[n-3], stack[n-2], stack[n-1]
			d1 := abs(s1 - s0)
			d2 := abs(s2 - s1)
			d3 := abs(s3 - s2)
			if d2 > d1 || d2 > d3 {
				break
			}
			cycles = append(cycles, s1, s2)
			stack[n-3] = s3
			stack = stack[:n-2]
		}
	}
	return cycles, stack
}

// ConcatenateReversals joins two reversal sequences so that the combined
// sequence still alternates, dropping the endpoint(s) that would break the
// turning-point property at the seam.
func ConcatenateReversals(a, b []float64) ([]float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, errors.Errorf("rainflow.ConcatenateReversals: sequences too short to join (%d and %d reversals)", len(a), len(b))
	}
	dEnd := a[len(a)-1] - a[len(a)-2]
	dStart := b[1] - b[0]
	dJoin := b[0] - a[len(a)-1]
	t1 := dEnd * dStart
	t2 := dEnd * dJoin

	out := make([]float64, 0, len(a)+len(b))
	switch {
	case t1 > 0 && t2 < 0:
		out = append(out, a...)
		out = append(out, b...)
	case t1 > 0 && t2 >= 0:
		out = append(out, a[:len(a)-1]...)
		out = append(out, b[1:]...)
	case t1 < 0 && t2 >= 0:
		out = append(out, a...)
		out = append(out, b[1:]...)
	case t1 < 0 && t2 < 0:
		out = append(out, a[:len(a)-1]...)
		out = append(out, b...)
	default:
		return nil, errors.Errorf("rainflow.ConcatenateReversals: joined sequences have a repeated endpoint")
	}
	return out, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

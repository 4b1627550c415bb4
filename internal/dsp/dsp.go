// Package dsp provides small numeric primitives shared by the codec and the
// counting engines: single-pass extrema scans, linear spacing and int16
// normalisation of sample sequences.
package dsp

import "math"

// MinMax returns the minimum and maximum value of xs in a single scan. For an
// empty sequence it returns (+Inf, -Inf), so that any sample compares inside
// the range.
func MinMax(xs []float64) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, x := range xs {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}

// Linspace returns n evenly spaced values from a to b inclusive, with step
// (b-a)/(n-1). A single point yields [a]. n < 1 yields nil.
func Linspace(a, b float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	step := (b - a) / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = a + float64(i)*step
	}
	return xs
}

// NormalizeInt16 scales xs onto the signed 16-bit range and returns the
// quantized samples together with the scale factor that recovers engineering
// units on decode.
//
// The peak is taken as max(max, |max|); for a signal dipping further below
// zero than it rises above it, the most negative samples overflow the int16
// range and wrap around.
func NormalizeInt16(xs []float64) ([]int16, float64) {
	_, max := MinMax(xs)
	peak := math.Max(max, math.Abs(max))
	factor := peak / float64(math.MaxInt16)
	out := make([]int16, len(xs))
	if factor == 0 {
		return out, 0
	}
	for i, x := range xs {
		out[i] = int16(int32(math.Round(x / factor)))
	}
	return out, factor
}

package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, -7, 2.5, 11, 0})
	assert.Equal(t, -7.0, min)
	assert.Equal(t, 11.0, max)

	min, max = MinMax(nil)
	assert.True(t, math.IsInf(min, 1))
	assert.True(t, math.IsInf(max, -1))

	min, max = MinMax([]float64{4.25})
	assert.Equal(t, 4.25, min)
	assert.Equal(t, 4.25, max)
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2.5}, Linspace(2.5, 9, 1))

	xs := Linspace(0, 1, 5)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, xs)

	xs = Linspace(10, -10, 3)
	assert.Equal(t, []float64{10, 0, -10}, xs)
}

func TestNormalizeInt16(t *testing.T) {
	out, factor := NormalizeInt16([]float64{0, 100, -50, 100})
	assert.InDelta(t, 100.0/32767.0, factor, 1e-15)
	assert.Equal(t, int16(32767), out[1])
	assert.Equal(t, int16(0), out[0])
	assert.InDelta(t, -16384, float64(out[2]), 1.0)

	// All-zero input must not divide by zero.
	out, factor = NormalizeInt16([]float64{0, 0, 0})
	assert.Equal(t, 0.0, factor)
	assert.Equal(t, []int16{0, 0, 0}, out)
}

func TestNormalizeInt16Recovers(t *testing.T) {
	in := []float64{12.5, -3.25, 7, 0.125, -9.75}
	out, factor := NormalizeInt16(in)
	for i, q := range out {
		assert.InDelta(t, in[i], float64(q)*factor, factor/2+1e-12)
	}
}

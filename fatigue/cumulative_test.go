package fatigue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeRainflowData(t *testing.T) {
	rangeCounts := []float64{8, 2, 6, 1, 4, 10, 2, 100}
	cum := CumulativeRainflowData(rangeCounts, 2, 30)

	// Gate at 8*30% = 2.4 drops the range-2 pairs.
	require.Equal(t, []float64{8, 8, 6, 4}, cum.Range)
	require.Len(t, cum.NCum, 4)
	require.Len(t, cum.DCum, 4)

	assert.Equal(t, 1.0, cum.NCum[0])
	assert.Equal(t, 0.0, cum.DCum[0])
	assert.InDelta(t, 324, cum.TotalDamage, 1e-9)

	assert.InDelta(t, 2, cum.NCum[1], 1e-12)
	assert.InDelta(t, 3, cum.NCum[2], 1e-12)
	assert.InDelta(t, 13, cum.NCum[3], 1e-12)

	assert.InDelta(t, 100*128.0/324, cum.DCum[1], 1e-9)
	assert.InDelta(t, 100*164.0/324, cum.DCum[2], 1e-9)
	assert.InDelta(t, 100, cum.DCum[3], 1e-9)
}

func TestCumulativeRainflowDataMergesDuplicates(t *testing.T) {
	cum := CumulativeRainflowData([]float64{4, 1, 4, 2, 8, 1}, 1, 0)
	assert.Equal(t, []float64{8, 8, 4}, cum.Range)
	assert.Equal(t, []float64{1, 1, 4}, cum.NCum)
	assert.InDelta(t, 8+12, cum.TotalDamage, 1e-12)
}

func TestCumulativeRainflowDataEmpty(t *testing.T) {
	cum := CumulativeRainflowData(nil, 5, 0)
	assert.Empty(t, cum.Range)
	assert.Equal(t, []float64{1}, cum.NCum)
	assert.Equal(t, []float64{0}, cum.DCum)
	assert.Zero(t, cum.TotalDamage)
}

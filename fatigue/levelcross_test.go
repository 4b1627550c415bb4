package fatigue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelCrossingSingleCycle(t *testing.T) {
	lcCum, lcLevel, err := LevelCrossing([][]float64{{0, 10}}, []float64{2}, 4)
	require.NoError(t, err)
	require.Len(t, lcCum, 8)
	require.Len(t, lcLevel, 8)

	// Sentinels at both ends, weighted counts in between.
	assert.Equal(t, 1.0, lcCum[0])
	assert.Equal(t, 1.0, lcCum[7])
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, lcCum[1:7])

	// Levels run min..mean then mean..max with the seam duplicated.
	assert.InDelta(t, 0, lcLevel[0], 1e-12)
	assert.InDelta(t, 5, lcLevel[3], 1e-12)
	assert.InDelta(t, 5, lcLevel[4], 1e-12)
	assert.InDelta(t, 10, lcLevel[7], 1e-12)
	for i := 1; i < len(lcLevel); i++ {
		assert.GreaterOrEqual(t, lcLevel[i], lcLevel[i-1])
	}
}

func TestLevelCrossingShape(t *testing.T) {
	rfList := [][]float64{
		{0, 10, 2, 8, -4, 4, -1, 1},
		{-6, 6, -2, 2},
	}
	reps := []float64{3, 7}
	lcCum, lcLevel, err := LevelCrossing(rfList, reps, 0)
	require.NoError(t, err)
	require.Len(t, lcCum, 2*DefaultLevelBins)
	require.Len(t, lcLevel, 2*DefaultLevelBins)

	// Counts rise toward the mean from the left and fall after it.
	half := DefaultLevelBins
	for i := 2; i < half; i++ {
		assert.GreaterOrEqual(t, lcCum[i], lcCum[i-1])
	}
	for i := half + 1; i < 2*half-1; i++ {
		assert.LessOrEqual(t, lcCum[i], lcCum[i-1])
	}

	assert.InDelta(t, -6, lcLevel[0], 1e-12)
	assert.InDelta(t, 10, lcLevel[2*half-1], 1e-12)
}

func TestLevelCrossingNoCycles(t *testing.T) {
	_, _, err := LevelCrossing(nil, nil, 16)
	assert.Error(t, err)
}

package rpc3

import (
	"github.com/galuszkm/rpc3/internal/dsp"
	"github.com/galuszkm/rpc3/rainflow"
)

// A Channel holds one decoded measurement signal together with its cached
// rainflow state. Channels are created by the decoder or by NewChannel for
// synthetic signals handed to the encoder.
type Channel struct {
	// 1-based channel number within its file.
	Number int
	// Channel description, e.g. "Wheel force X".
	Name string
	// Engineering units of the samples, e.g. "kN".
	Units string
	// Scale factor applied to the stored integers on decode.
	Scale float64
	// Sample interval in seconds.
	Dt float64
	// Name of the source file, if any.
	FileName string
	// Opaque identifier of the source file, if any.
	FileHash string

	samples  []float64
	min, max float64

	// Rainflow state, filled by Rainflow and cleared by ClearRF.
	repetitions float64
	reversals   []float64
	revIdx      []int
	cycles      []float64
	residue     []float64
	rangeCounts []float64
}

// NewChannel returns an empty channel with the given descriptor fields.
func NewChannel(number int, name, units string, scale, dt float64, fileName, fileHash string) *Channel {
	return &Channel{
		Number:   number,
		Name:     name,
		Units:    units,
		Scale:    scale,
		Dt:       dt,
		FileName: fileName,
		FileHash: fileHash,
	}
}

// Samples returns the raw sample sequence. The slice is owned by the channel.
func (c *Channel) Samples() []float64 { return c.samples }

// SetSamples replaces the sample sequence and refreshes the cached extremes.
func (c *Channel) SetSamples(samples []float64) {
	c.samples = samples
	c.SetMinMax()
}

// Min returns the cached minimum sample value.
func (c *Channel) Min() float64 { return c.min }

// Max returns the cached maximum sample value.
func (c *Channel) Max() float64 { return c.max }

// TimeAt returns the time coordinate of sample i.
func (c *Channel) TimeAt(i int) float64 { return float64(i) * c.Dt }

// SetMinMax rescans the samples and caches their extremes.
func (c *Channel) SetMinMax() {
	c.min, c.max = dsp.MinMax(c.samples)
}

// Rainflow counts the channel and caches the result. Counts are weighted by
// repeats. With closeResiduals set the residue is wrapped on itself and the
// extra closed cycles are included; the residue stays open either way so the
// channel can still take part in cross-event aggregation. A second call
// discards the previous cache.
func (c *Channel) Rainflow(repeats float64, closeResiduals bool, k int) error {
	res, err := rainflow.Count(c.samples, closeResiduals, k)
	if err != nil {
		return err
	}
	c.repetitions = repeats
	c.reversals = res.Reversals
	c.revIdx = res.Indices
	c.cycles = res.Cycles
	c.residue = res.Residue
	c.rangeCounts = rainflow.CountRangeCycles(res.Cycles, repeats)
	return nil
}

// SetRainflowCycles installs an externally counted cycle sequence, e.g. the
// closed residual cycles of a channel group. Counts are aggregated with unit
// weight.
func (c *Channel) SetRainflowCycles(cycles []float64) {
	c.repetitions = 1
	c.reversals = nil
	c.revIdx = nil
	c.cycles = cycles
	c.residue = nil
	c.rangeCounts = rainflow.CountRangeCycles(cycles, 1)
}

// Damage returns the Miner sum of the cached range counts for the given
// Wöhler slope. It is zero before Rainflow has run.
func (c *Channel) Damage(slope float64) float64 {
	return rainflow.Damage(slope, c.rangeCounts)
}

// ScaleValue multiplies all samples, the scale factor and the cached extremes
// by s.
func (c *Channel) ScaleValue(s float64) {
	for i := range c.samples {
		c.samples[i] *= s
	}
	c.Scale *= s
	c.min *= s
	c.max *= s
}

// ClearRF drops the cached rainflow state.
func (c *Channel) ClearRF() {
	c.repetitions = 0
	c.reversals = nil
	c.revIdx = nil
	c.cycles = nil
	c.residue = nil
	c.rangeCounts = nil
}

// Repetitions returns the repetition count applied by the last Rainflow call.
func (c *Channel) Repetitions() float64 { return c.repetitions }

// Reversals returns the cached reversal values.
func (c *Channel) Reversals() []float64 { return c.reversals }

// ReversalIndices returns the sample positions of the cached reversals.
func (c *Channel) ReversalIndices() []int { return c.revIdx }

// Cycles returns the cached closed cycles as flattened start/end pairs.
func (c *Channel) Cycles() []float64 { return c.cycles }

// Residue returns the cached open reversals.
func (c *Channel) Residue() []float64 { return c.residue }

// RangeCounts returns the cached range-count sequence, sorted by range
// descending.
func (c *Channel) RangeCounts() []float64 { return c.rangeCounts }

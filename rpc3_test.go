package rpc3_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/galuszkm/rpc3"
	"github.com/galuszkm/rpc3/header"
)

// makeChannel wraps samples in a channel ready for encoding.
func makeChannel(number int, name string, samples []float64) *rpc3.Channel {
	c := rpc3.NewChannel(number, name, "kN", 1, 0.002, "", "")
	c.SetSamples(samples)
	return c
}

// sine returns n samples of a positive test waveform.
func sine(n int, amp, periods float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp + amp*math.Sin(2*math.Pi*periods*float64(i)/float64(n))
	}
	return out
}

func TestWriteParse(t *testing.T) {
	channels := []*rpc3.Channel{
		makeChannel(1, "Wheel force X", sine(3000, 400, 3)),
		makeChannel(2, "Wheel force Y", sine(1500, 120, 7)),
		makeChannel(3, "Damper travel", sine(2048, 35, 1)),
		makeChannel(4, "Spring load", sine(100, 900, 2)),
		makeChannel(5, "Axle torque", sine(4096, 60, 11)),
	}
	data, err := rpc3.WriteBytes(channels, 0.002)
	require.NoError(t, err)

	f := rpc3.NewFile(data, "test.rsp")
	require.True(t, f.Parse(), "parse failed: %v", f.Errs())
	require.Empty(t, f.Errs())
	require.Len(t, f.Channels(), 5)

	for i, c := range f.Channels() {
		want := channels[i]
		assert.Equal(t, i+1, c.Number)
		assert.Equal(t, want.Name, c.Name)
		assert.Equal(t, "kN", c.Units)
		assert.InDelta(t, 0.002, c.Dt, 1e-12)

		// The decoded signal matches within one quantization step. Short
		// channels are padded up to the group length with the last sample.
		got := c.Samples()
		require.GreaterOrEqual(t, len(got), len(want.Samples()))
		step := want.Max() / 32767
		for j, w := range want.Samples() {
			assert.InDelta(t, w, got[j], step/2+1e-9)
		}
		assert.Less(t, math.Abs(c.Max()), 2000.0)
		assert.Less(t, math.Abs(c.Min()), 2000.0)
	}

	// Header carries the writer's fixed fields.
	hdr := f.Header()
	if v, ok := hdr.Text("FILE_TYPE"); assert.True(t, ok) {
		assert.Equal(t, "TIME_HISTORY", v)
	}
	if v, ok := hdr.Int("CHANNELS"); assert.True(t, ok) {
		assert.Equal(t, 5, v)
	}
}

func TestDecodeEncodeDecode(t *testing.T) {
	channels := []*rpc3.Channel{
		makeChannel(1, "FX", sine(2500, 250, 5)),
		makeChannel(2, "FY", sine(2500, 80, 2)),
	}
	data, err := rpc3.WriteBytes(channels, 0.01)
	require.NoError(t, err)

	first := rpc3.NewFile(data, "a.rsp")
	require.True(t, first.Parse(), "parse failed: %v", first.Errs())

	again, err := rpc3.WriteBytes(first.Channels(), 0.01)
	require.NoError(t, err)
	second := rpc3.NewFile(again, "b.rsp")
	require.True(t, second.Parse(), "parse failed: %v", second.Errs())

	require.Len(t, second.Channels(), len(first.Channels()))
	for i := range first.Channels() {
		assert.Equal(t, first.Channels()[i].Samples(), second.Channels()[i].Samples(),
			"channel %d drifted across a decode/encode round trip", i+1)
	}
}

func TestWriteParseRoundTripRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 3).Draw(t, "channels")
		channels := make([]*rpc3.Channel, n)
		for i := range channels {
			samples := rapid.SliceOfN(rapid.Float64Range(0, 1000), 1, 2200).Draw(t, "samples")
			channels[i] = makeChannel(i+1, "CH", samples)
		}
		data, err := rpc3.WriteBytes(channels, 0.002)
		if err != nil {
			t.Fatal(err)
		}
		first := rpc3.NewFile(data, "p.rsp")
		if !first.Parse() {
			t.Fatalf("first parse failed: %v", first.Errs())
		}
		again, err := rpc3.WriteBytes(first.Channels(), 0.002)
		if err != nil {
			t.Fatal(err)
		}
		second := rpc3.NewFile(again, "q.rsp")
		if !second.Parse() {
			t.Fatalf("second parse failed: %v", second.Errs())
		}
		for i := range first.Channels() {
			a := first.Channels()[i].Samples()
			b := second.Channels()[i].Samples()
			if len(a) != len(b) {
				t.Fatalf("channel %d length changed: %d != %d", i+1, len(a), len(b))
			}
			for j := range a {
				if a[j] != b[j] {
					t.Fatalf("channel %d sample %d drifted: %v != %v", i+1, j, a[j], b[j])
				}
			}
		}
	})
}

func TestParseDataSizeMismatch(t *testing.T) {
	data, err := rpc3.WriteBytes([]*rpc3.Channel{makeChannel(1, "FX", sine(2000, 10, 1))}, 0.002)
	require.NoError(t, err)

	f := rpc3.NewFile(data[:len(data)-10], "cut.rsp")
	assert.False(t, f.Parse())
	assert.NotEmpty(t, f.Errs())
	assert.Empty(t, f.Channels())
}

func TestParseMissingMandatoryFields(t *testing.T) {
	fields := []header.Field{
		{Key: "FORMAT", Value: header.Value{Text: "BINARY"}},
		{Key: "NUM_HEADER_BLOCKS", Value: header.Value{Text: "1"}},
		{Key: "NUM_PARAMS", Value: header.Value{Text: "4"}},
		{Key: "CHANNELS", Value: header.Value{Text: "1"}},
	}
	data, err := header.Encode(fields)
	require.NoError(t, err)

	f := rpc3.NewFile(data, "bare.rsp")
	assert.False(t, f.Parse())
	// One diagnostic per missing field, not just the first.
	assert.GreaterOrEqual(t, len(f.Errs()), 4)
}

func TestParseHeaderDefaults(t *testing.T) {
	// A floating-point file without DATA_TYPE decodes once the caller
	// supplies it as a default.
	fields := []header.Field{
		{Key: "FORMAT", Value: header.Value{Text: "BINARY"}},
		{Key: "NUM_HEADER_BLOCKS", Value: header.Value{Text: "2"}},
		{Key: "NUM_PARAMS", Value: header.Value{Text: "8"}},
		{Key: "CHANNELS", Value: header.Value{Text: "1"}},
		{Key: "DELTA_T", Value: header.Value{Text: "0.01"}},
		{Key: "PTS_PER_FRAME", Value: header.Value{Text: "4"}},
		{Key: "PTS_PER_GROUP", Value: header.Value{Text: "4"}},
		{Key: "FRAMES", Value: header.Value{Text: "1"}},
	}
	hdr, err := header.Encode(fields)
	require.NoError(t, err)

	payload := make([]byte, 0, len(hdr)+16)
	payload = append(payload, hdr...)
	for _, v := range []float32{1.5, -2.5, 3.25, 0} {
		bits := math.Float32bits(v)
		payload = append(payload, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}

	f := rpc3.NewFile(payload, "float.rsp",
		rpc3.WithHeaderDefaults(map[string]string{"DATA_TYPE": "FLOATING_POINT"}))
	require.True(t, f.Parse(), "parse failed: %v", f.Errs())
	require.Len(t, f.Channels(), 1)
	assert.Equal(t, []float64{1.5, -2.5, 3.25, 0}, f.Channels()[0].Samples())
}

func TestFileIdentity(t *testing.T) {
	a := rpc3.NewFile([]byte{1, 2, 3}, "a.rsp")
	b := rpc3.NewFile([]byte{1, 2, 4}, "b.rsp")
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Len(t, a.Hash(), 40)
	assert.Equal(t, 3, a.NumBytes())
	assert.NotEmpty(t, a.Size())
}

package rpc3

import (
	"math"
	"testing"
)

// synthetic returns n samples of a mixed-frequency load history.
func synthetic(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 400*math.Sin(2*math.Pi*x/977) + 120*math.Sin(2*math.Pi*x/89) + 35*math.Sin(2*math.Pi*x/7)
	}
	return out
}

// BenchmarkWriteParse measures the performance of an encode/decode round trip
// over synthetic channels, avoiding dependency on external files.
func BenchmarkWriteParse(b *testing.B) {
	channels := make([]*Channel, 4)
	for i := range channels {
		channels[i] = NewChannel(i+1, "CH", "kN", 1, 0.002, "", "")
		channels[i].SetSamples(synthetic(1 << 16))
	}
	data, err := WriteBytes(channels, 0.002)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f := NewFile(data, "bench.rsp")
		if !f.Parse() {
			b.Fatal(f.Errs())
		}
	}
}

// BenchmarkRainflow measures cycle counting of a synthetic channel.
func BenchmarkRainflow(b *testing.B) {
	c := NewChannel(1, "CH", "kN", 1, 0.002, "", "")
	c.SetSamples(synthetic(1 << 18))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := c.Rainflow(1, true, 0); err != nil {
			b.Fatal(err)
		}
	}
}

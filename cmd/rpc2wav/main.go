// rpc2wav converts the channels of RPC-III files to WAV files, one per
// channel, for listening or quick inspection in audio tools.
package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	flag "github.com/spf13/pflag"

	"github.com/galuszkm/rpc3"
)

func main() {
	// Parse command line arguments.
	var (
		// force overwrite WAV files if already present.
		force bool
	)
	flag.BoolVarP(&force, "force", "f", false, "force overwrite")
	flag.Parse()
	for _, path := range flag.Args() {
		if err := rpc2wav(path, force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// rpc2wav writes one WAV file per channel of the given RPC-III file.
func rpc2wav(path string, force bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f := rpc3.NewFile(data, path)
	if !f.Parse() {
		for _, e := range f.Errs() {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("%s: decode failed", path)
	}

	for _, c := range f.Channels() {
		wavPath := fmt.Sprintf("%s.ch%02d.wav", pathutil.TrimExt(path), c.Number)
		if !force && osutil.Exists(wavPath) {
			return fmt.Errorf("the file %q exists already; use -f flag to force overwrite", wavPath)
		}
		if err := writeWav(wavPath, c); err != nil {
			return err
		}
	}
	return nil
}

// writeWav renders the channel as 16-bit mono PCM. The sample rate follows
// the channel's sample interval.
func writeWav(wavPath string, c *rpc3.Channel) error {
	fw, err := os.Create(wavPath)
	if err != nil {
		return err
	}
	defer fw.Close()

	sampleRate := 44100
	if c.Dt > 0 {
		sampleRate = int(math.Round(1 / c.Dt))
	}
	enc := wav.NewEncoder(fw, sampleRate, 16, 1, 1)
	defer enc.Close()

	// Normalise onto the int16 range by the larger of |min| and |max|.
	peak := math.Max(math.Abs(c.Min()), math.Abs(c.Max()))
	scale := 1.0
	if peak > 0 {
		scale = math.MaxInt16 / peak
	}
	samples := c.Samples()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(math.Round(s * scale))
	}
	return enc.Write(buf)
}

// wav2rpc converts WAV files to short-integer RPC-III files, mapping each
// audio channel to one RPC channel.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/galuszkm/rpc3"
)

func main() {
	// Parse command line arguments.
	var (
		// force overwrite RPC file if already present.
		force bool
	)
	flag.BoolVarP(&force, "force", "f", false, "force overwrite")
	flag.Parse()
	for _, wavPath := range flag.Args() {
		if err := wav2rpc(wavPath, force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// wav2rpc converts the provided WAV file to an RPC-III file.
func wav2rpc(wavPath string, force bool) error {
	// Create WAV decoder.
	r, err := os.Open(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return errors.Errorf("invalid WAV file %q", wavPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return errors.WithStack(err)
	}
	nchannels := buf.Format.NumChannels
	dt := 1 / float64(buf.Format.SampleRate)

	// Demultiplex the interleaved PCM data into RPC channels.
	channels := make([]*rpc3.Channel, nchannels)
	for i := range channels {
		channels[i] = rpc3.NewChannel(i+1, filepath.Base(pathutil.TrimExt(wavPath)), "", 1, dt, wavPath, "")
		samples := make([]float64, 0, len(buf.Data)/nchannels)
		for j := i; j < len(buf.Data); j += nchannels {
			samples = append(samples, float64(buf.Data[j]))
		}
		channels[i].SetSamples(samples)
	}

	rpcPath := pathutil.TrimExt(wavPath) + ".rsp"
	if !force && osutil.Exists(rpcPath) {
		return errors.Errorf("RPC file %q already present; use -f flag to force overwrite", rpcPath)
	}
	w, err := os.Create(rpcPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	if err := rpc3.Write(w, channels, dt); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

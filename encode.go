package rpc3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	"github.com/galuszkm/rpc3/header"
	"github.com/galuszkm/rpc3/internal/dsp"
)

// Frame length used by the encoder.
const encPtsPerFrame = 1024

// Write encodes the channels as a short-integer RPC-III file and writes it to
// w. Samples are normalised per channel to signed 16-bit; the recovered scale
// is stored in SCALE.CHAN_<i>. Channels shorter than the group length are
// right-padded with their own last sample. dt is the sample interval written
// to DELTA_T.
func Write(w io.Writer, channels []*Channel, dt float64) error {
	if len(channels) == 0 {
		return errutil.Newf("rpc3.Write: no channels to encode")
	}
	maxLen := 0
	for _, c := range channels {
		if len(c.samples) > maxLen {
			maxLen = len(c.samples)
		}
	}
	if maxLen == 0 {
		return errutil.Newf("rpc3.Write: channels carry no samples")
	}
	frames := (maxLen + encPtsPerFrame - 1) / encPtsPerFrame
	ptsPerGroup := frames * encPtsPerFrame

	// Normalise every channel onto the int16 range.
	quantized := make([][]int16, len(channels))
	factors := make([]float64, len(channels))
	for i, c := range channels {
		quantized[i], factors[i] = dsp.NormalizeInt16(c.samples)
	}

	fields := encodeHeaderFields(channels, factors, dt, frames, ptsPerGroup)
	hdr, err := header.Encode(fields)
	if err != nil {
		return errutil.Err(err)
	}

	bw := bitio.NewWriter(w)
	if _, err := bw.Write(hdr); err != nil {
		return errutil.Err(err)
	}
	// One group of `frames` frames per channel; pad short channels with
	// their last sample.
	for _, q := range quantized {
		var pad int16
		if len(q) > 0 {
			pad = q[len(q)-1]
		}
		for i := 0; i < ptsPerGroup; i++ {
			v := pad
			if i < len(q) {
				v = q[i]
			}
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return errutil.Err(err)
			}
		}
	}
	if _, err := bw.Align(); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WriteBytes encodes the channels as a short-integer RPC-III file and returns
// the raw bytes.
func WriteBytes(channels []*Channel, dt float64) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := Write(buf, channels, dt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeHeaderFields lays out the header key/value pairs in the order the
// writer emits them: the fixed preamble and file description, then the five
// descriptor fields of each channel.
func encodeHeaderFields(channels []*Channel, factors []float64, dt float64, frames, ptsPerGroup int) []header.Field {
	numKeys := 13 + 5*len(channels)
	text := func(key, value string) header.Field {
		return header.Field{Key: key, Value: header.Value{Kind: header.KindText, Text: value}}
	}
	fields := []header.Field{
		text(header.KeyFormat, "BINARY"),
		text(header.KeyNumHeaderBlocks, strconv.Itoa(header.NumBlocks(numKeys))),
		text(header.KeyNumParams, strconv.Itoa(numKeys)),
		text("FILE_TYPE", "TIME_HISTORY"),
		text("TIME_TYPE", "RESPONSE"),
		text("DELTA_T", fmt.Sprintf("%.6e", dt)),
		text("CHANNELS", strconv.Itoa(len(channels))),
		text("DATE", time.Now().Format("15:04:05 02-01-2006")),
		text("REPEATS", "1"),
		text("DATA_TYPE", DataTypeShort),
		text("PTS_PER_FRAME", strconv.Itoa(encPtsPerFrame)),
		text("PTS_PER_GROUP", strconv.Itoa(ptsPerGroup)),
		text("FRAMES", strconv.Itoa(frames)),
	}
	for i, c := range channels {
		n := i + 1
		fields = append(fields,
			text(header.Chan("DESC", n), c.Name),
			text(header.Chan("UNITS", n), c.Units),
			text(header.Chan("SCALE", n), fmt.Sprintf("%.6e", factors[i])),
			text(header.Chan("LOWER_LIMIT", n), "1"),
			text(header.Chan("UPPER_LIMIT", n), "-1"),
		)
	}
	return fields
}

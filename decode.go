package rpc3

import (
	"encoding/binary"
	"math"

	"github.com/galuszkm/rpc3/header"
)

// Sample encodings of the RPC-III data section.
const (
	DataTypeFloat = "FLOATING_POINT"
	DataTypeShort = "SHORT_INTEGER"
)

// Parse decodes the header and data sections. It reports whether decoding
// succeeded; on failure the diagnostics are available through Errs and no
// channels are exposed.
func (f *File) Parse() bool {
	hdr, err := header.Parse(f.data)
	if err != nil {
		f.errf("%v", err)
		return false
	}
	f.hdr = hdr
	for k, v := range f.defaults {
		hdr.SetDefault(k, v)
	}
	if !f.readGeometry() {
		return false
	}
	channels, ok := f.describeChannels()
	if !ok {
		return false
	}
	if !f.decodeData(channels) {
		return false
	}
	f.channels = channels
	return true
}

// readGeometry pulls the mandatory numeric fields out of the header. Every
// missing or malformed field is reported; decoding continues so that one pass
// surfaces all problems.
func (f *File) readGeometry() bool {
	before := len(f.errs)

	intField := func(key string) int {
		n, ok := f.hdr.Int(key)
		if !ok {
			f.errf("header field %s is missing or not an integer", key)
		}
		return n
	}
	f.numChannels = intField("CHANNELS")
	f.ptsPerFrame = intField("PTS_PER_FRAME")
	f.ptsPerGroup = intField("PTS_PER_GROUP")
	f.frames = intField("FRAMES")

	dt, ok := f.hdr.Float("DELTA_T")
	if !ok {
		f.errf("header field DELTA_T is missing or not a number")
	}
	f.dt = dt

	dataType, ok := f.hdr.Text("DATA_TYPE")
	if !ok {
		f.errf("header field DATA_TYPE is missing")
	} else if dataType != DataTypeFloat && dataType != DataTypeShort {
		f.errf("unsupported DATA_TYPE %q", dataType)
	}
	f.dataType = dataType
	if dataType == DataTypeShort {
		f.intFullScale = intField("INT_FULL_SCALE")
	}

	if len(f.errs) > before {
		return false
	}
	if f.numChannels < 1 || f.ptsPerFrame < 1 || f.ptsPerGroup < f.ptsPerFrame || f.frames < 1 {
		f.errf("implausible data geometry: CHANNELS=%d PTS_PER_FRAME=%d PTS_PER_GROUP=%d FRAMES=%d",
			f.numChannels, f.ptsPerFrame, f.ptsPerGroup, f.frames)
		return false
	}
	f.log.Debug().
		Int("channels", f.numChannels).
		Int("ptsPerFrame", f.ptsPerFrame).
		Int("ptsPerGroup", f.ptsPerGroup).
		Int("frames", f.frames).
		Float64("dt", f.dt).
		Str("dataType", f.dataType).
		Msg("rpc3: header geometry")
	return true
}

// describeChannels builds the channel descriptors from the per-channel header
// fields. Short-integer files must carry a scale per channel; floating-point
// files decode with unit scale.
func (f *File) describeChannels() ([]*Channel, bool) {
	before := len(f.errs)
	channels := make([]*Channel, f.numChannels)
	for i := 1; i <= f.numChannels; i++ {
		name, _ := f.hdr.Text(header.Chan("DESC", i))
		units, _ := f.hdr.Text(header.Chan("UNITS", i))
		scale := 1.0
		if f.dataType == DataTypeShort {
			s, ok := f.hdr.Float(header.Chan("SCALE", i))
			if !ok {
				f.errf("header field %s is missing or not a number", header.Chan("SCALE", i))
				continue
			}
			scale = s
		}
		channels[i-1] = NewChannel(i, name, units, scale, f.dt, f.name, f.hash)
	}
	return channels, len(f.errs) == before
}

// decodeData demultiplexes the sample section into the channels.
//
// The data is stored as numberOfGroups groups; within a group each channel
// contributes framesPerGroup contiguous frames of ptsPerFrame samples. The
// nominal per-channel length numberOfGroups*framesPerGroup*ptsPerFrame can
// overshoot FRAMES*PTS_PER_FRAME when FRAMES does not divide evenly into
// groups; the trailing padding is cut off.
func (f *File) decodeData(channels []*Channel) bool {
	unit := 4
	if f.dataType == DataTypeShort {
		unit = 2
	}
	framesPerGroup := f.ptsPerGroup / f.ptsPerFrame
	numGroups := (f.frames + framesPerGroup - 1) / framesPerGroup
	samplesPerGroup := framesPerGroup * f.ptsPerFrame

	offset := f.headerBytes()
	want := f.ptsPerFrame * unit * framesPerGroup * numGroups * f.numChannels
	if got := len(f.data) - offset; got != want {
		f.errf("data size mismatch: %d bytes after header, geometry needs %d", got, want)
		return false
	}

	nominal := numGroups * samplesPerGroup
	for _, c := range channels {
		c.samples = make([]float64, 0, nominal)
	}
	pos := offset
	for g := 0; g < numGroups; g++ {
		for _, c := range channels {
			block := f.data[pos : pos+samplesPerGroup*unit]
			pos += samplesPerGroup * unit
			if f.dataType == DataTypeShort {
				for i := 0; i < samplesPerGroup; i++ {
					v := int16(binary.LittleEndian.Uint16(block[2*i:]))
					c.samples = append(c.samples, float64(v)*c.Scale)
				}
			} else {
				for i := 0; i < samplesPerGroup; i++ {
					v := math.Float32frombits(binary.LittleEndian.Uint32(block[4*i:]))
					c.samples = append(c.samples, float64(v))
				}
			}
		}
	}

	length := f.frames * f.ptsPerFrame
	for _, c := range channels {
		if len(c.samples) > length {
			c.samples = c.samples[:length]
		}
		c.SetMinMax()
	}
	return true
}

// headerBytes returns the size of the header section in bytes.
func (f *File) headerBytes() int {
	n, _ := f.hdr.Int(header.KeyNumHeaderBlocks)
	return n * header.SectorSize
}

// Package rpc3 provides access to RPC-III time-history files and the fatigue
// analysis built on them: rainflow counting of decoded channels, cross-event
// aggregation of range counts and encoding of channels back into the 16-bit
// RPC-III layout.
//
// An RPC-III file starts with a key/value header of 128-byte text blocks
// (NUM_HEADER_BLOCKS*512 bytes in total) followed by the sample data,
// demultiplexed into groups of per-channel frames. See the header package for
// the block layout.
package rpc3

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/galuszkm/rpc3/header"
)

// A File is an RPC-III file container. It keeps the raw bytes, the parsed
// header and the decoded channels; decode diagnostics accumulate on the file
// instead of aborting at the first problem.
type File struct {
	data     []byte
	name     string
	hdr      *header.Header
	channels []*Channel
	errs     []string
	hash     string
	log      zerolog.Logger

	// Header defaults (built-in and caller-supplied), applied after parsing.
	defaults map[string]string

	// Header-derived geometry, valid after a successful Parse.
	numChannels  int
	dt           float64
	ptsPerFrame  int
	ptsPerGroup  int
	frames       int
	dataType     string
	intFullScale int
}

// An Option configures a File before parsing.
type Option func(*File)

// WithHeaderDefaults supplies header fields to assume when the file does not
// carry them, e.g. DATA_TYPE for headerless legacy exports. Fields present in
// the file always win.
func WithHeaderDefaults(defaults map[string]string) Option {
	return func(f *File) {
		if f.defaults == nil {
			f.defaults = make(map[string]string)
		}
		for k, v := range defaults {
			f.defaults[k] = v
		}
	}
}

// WithLogger attaches a logger used to trace header fields and decode
// geometry at debug level. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(f *File) {
		f.log = log
	}
}

// NewFile wraps the raw bytes of an RPC-III file. Call Parse to decode it.
// A file without INT_FULL_SCALE is read with INT_FULL_SCALE=32768 unless
// WithHeaderDefaults supplies another value.
func NewFile(data []byte, name string, opts ...Option) *File {
	sum := sha1.Sum(data)
	f := &File{
		data:     data,
		name:     name,
		hash:     hex.EncodeToString(sum[:]),
		log:      zerolog.Nop(),
		defaults: map[string]string{"INT_FULL_SCALE": "32768"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the file name the container was created with.
func (f *File) Name() string { return f.name }

// Hash returns an opaque identifier of the file contents.
func (f *File) Hash() string { return f.hash }

// NumBytes returns the raw file size in bytes.
func (f *File) NumBytes() int { return len(f.data) }

// Size returns the file size as human-readable text.
func (f *File) Size() string { return humanize.Bytes(uint64(len(f.data))) }

// Header returns the parsed header, or nil if Parse has not decoded one. A
// Parse that fails after the header section was read still leaves it here.
func (f *File) Header() *header.Header { return f.hdr }

// Channels returns the decoded channels. It is empty unless Parse succeeded.
func (f *File) Channels() []*Channel { return f.channels }

// Errs returns the diagnostics accumulated by Parse.
func (f *File) Errs() []string { return f.errs }

// errf records a decode diagnostic.
func (f *File) errf(format string, args ...interface{}) {
	f.errs = append(f.errs, f.name+": "+fmt.Sprintf(format, args...))
}

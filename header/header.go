// Package header implements parsing and encoding of RPC-III header sections.
//
// An RPC-III header is a sequence of 128-byte blocks. The first 32 bytes of a
// block hold the field name and the remaining 96 bytes hold the field value,
// both as windows-1251 encoded text padded with null bytes. The header section
// as a whole occupies NUM_HEADER_BLOCKS*512 bytes including zero padding.
package header

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Size of a single header block in bytes.
const BlockSize = 128

// Number of bytes of a block reserved for the field name.
const KeySize = 32

// A header section spans a whole number of 512-byte sectors.
const SectorSize = 512

// Names of the three fields every RPC-III header starts with, in order.
const (
	KeyFormat          = "FORMAT"
	KeyNumHeaderBlocks = "NUM_HEADER_BLOCKS"
	KeyNumParams       = "NUM_PARAMS"
)

// Kind identifies the scalar type a header value has been resolved to.
// Values start out as text and are re-tagged by the typed accessors.
type Kind uint8

// Header value kinds.
const (
	KindText Kind = iota
	KindInt
	KindFloat
)

// A Value is a tagged scalar from the header key/value section.
type Value struct {
	Kind  Kind
	Text  string
	Int   int
	Float float64
}

// A Field is a single decoded header block.
type Field struct {
	Key   string
	Value Value
}

// A Header is the decoded key/value section of an RPC-III file. Field order is
// preserved; lookup is by key, last occurrence wins.
type Header struct {
	fields []Field
	index  map[string]int
}

// decodeText converts windows-1251 block text to a string, dropping the null
// padding and any stray line breaks.
func decodeText(b []byte) (string, error) {
	s, err := charmap.Windows1251.NewDecoder().String(string(b))
	if err != nil {
		return "", errors.WithStack(err)
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case 0, '\n', '\r':
			return -1
		}
		return r
	}, s)
	return s, nil
}

// DecodeBlock decodes one 128-byte header block into its key and value text.
func DecodeBlock(b []byte) (key, value string, err error) {
	if len(b) < BlockSize {
		return "", "", errors.Errorf("header.DecodeBlock: block too short; expected %d bytes, got %d", BlockSize, len(b))
	}
	key, err = decodeText(b[:KeySize])
	if err != nil {
		return "", "", err
	}
	value, err = decodeText(b[KeySize:BlockSize])
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(key), value, nil
}

// Parse decodes the header section at the start of data.
//
// The first three blocks must be FORMAT, NUM_HEADER_BLOCKS and NUM_PARAMS, in
// that order. NUM_PARAMS-3 further blocks follow; blocks whose name is blank
// are skipped. Parse fails on a truncated header, an out-of-order preamble or
// a NUM_PARAMS that leaves no room for the mandatory fields.
func Parse(data []byte) (*Header, error) {
	h := &Header{index: make(map[string]int)}

	// Preamble: the three fields fixing the header geometry.
	want := []string{KeyFormat, KeyNumHeaderBlocks, KeyNumParams}
	for i, key := range want {
		k, v, err := readBlock(data, i)
		if err != nil {
			return nil, err
		}
		if k != key {
			return nil, errors.Errorf("header.Parse: field %d is %q; expected %q", i, k, key)
		}
		h.put(k, Value{Kind: KindText, Text: v})
	}
	numParams, ok := h.Int(KeyNumParams)
	if !ok {
		return nil, errors.Errorf("header.Parse: NUM_PARAMS is not an integer")
	}
	if numParams <= 3 {
		return nil, errors.Errorf("header.Parse: NUM_PARAMS is %d; expected more than 3", numParams)
	}
	if _, ok := h.Int(KeyNumHeaderBlocks); !ok {
		return nil, errors.Errorf("header.Parse: NUM_HEADER_BLOCKS is not an integer")
	}

	// Remaining parameter blocks. Blank names are padding and are skipped.
	for i := 3; i < numParams; i++ {
		k, v, err := readBlock(data, i)
		if err != nil {
			return nil, err
		}
		if k == "" {
			continue
		}
		h.put(k, Value{Kind: KindText, Text: v})
	}
	return h, nil
}

// readBlock decodes the i-th 128-byte block of data.
func readBlock(data []byte, i int) (key, value string, err error) {
	off := i * BlockSize
	if off+BlockSize > len(data) {
		return "", "", errors.Errorf("header.Parse: header truncated; block %d needs %d bytes, have %d", i, off+BlockSize, len(data))
	}
	return DecodeBlock(data[off : off+BlockSize])
}

func (h *Header) put(key string, v Value) {
	if i, ok := h.index[key]; ok {
		h.fields[i].Value = v
		return
	}
	h.index[key] = len(h.fields)
	h.fields = append(h.fields, Field{Key: key, Value: v})
}

// Fields returns the decoded fields in file order.
func (h *Header) Fields() []Field {
	return h.fields
}

// Has reports whether key is present.
func (h *Header) Has(key string) bool {
	_, ok := h.index[key]
	return ok
}

// SetDefault stores a text value for key unless the key is already present.
// It is used to fill fields absent from the file with caller defaults.
func (h *Header) SetDefault(key, text string) {
	if h.Has(key) {
		return
	}
	h.put(key, Value{Kind: KindText, Text: text})
}

// Text returns the value of key as text.
func (h *Header) Text(key string) (string, bool) {
	i, ok := h.index[key]
	if !ok {
		return "", false
	}
	return h.fields[i].Value.Text, true
}

// Int returns the value of key parsed as an integer. A successful parse
// re-tags the stored value.
func (h *Header) Int(key string) (int, bool) {
	i, ok := h.index[key]
	if !ok {
		return 0, false
	}
	v := &h.fields[i].Value
	if v.Kind == KindInt {
		return v.Int, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Text))
	if err != nil {
		return 0, false
	}
	v.Kind = KindInt
	v.Int = n
	return n, true
}

// Float returns the value of key parsed as a real. A successful parse re-tags
// the stored value.
func (h *Header) Float(key string) (float64, bool) {
	i, ok := h.index[key]
	if !ok {
		return 0, false
	}
	v := &h.fields[i].Value
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}
	v.Kind = KindFloat
	v.Float = f
	return f, true
}

// Chan returns the per-channel variant of key, e.g. Chan("DESC", 3) is
// "DESC.CHAN_3". Channel numbering is 1-based.
func Chan(key string, number int) string {
	return key + ".CHAN_" + strconv.Itoa(number)
}

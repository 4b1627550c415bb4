package header

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// encodeText converts s to windows-1251 and writes it into dst, padding the
// remainder with null bytes. Text longer than dst is an error.
func encodeText(dst []byte, s string) error {
	b, err := charmap.Windows1251.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return errors.WithStack(err)
	}
	if len(b) > len(dst) {
		return errors.Errorf("header.encodeText: text %q is %d bytes; field holds %d", s, len(b), len(dst))
	}
	copy(dst, b)
	for i := len(b); i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

// EncodeBlock encodes one key/value pair as a 128-byte header block.
func EncodeBlock(key, value string) ([]byte, error) {
	b := make([]byte, BlockSize)
	if err := encodeText(b[:KeySize], key); err != nil {
		return nil, err
	}
	if err := encodeText(b[KeySize:], value); err != nil {
		return nil, err
	}
	return b, nil
}

// NumBlocks returns the number of 512-byte sectors needed to hold n header
// blocks, i.e. the NUM_HEADER_BLOCKS value for a header with n fields.
func NumBlocks(n int) int {
	return (n + 3) / 4
}

// Encode packs the key/value pairs into consecutive 128-byte blocks and pads
// the result with zero bytes to a whole number of 512-byte sectors.
func Encode(fields []Field) ([]byte, error) {
	out := make([]byte, NumBlocks(len(fields))*SectorSize)
	for i, f := range fields {
		b, err := EncodeBlock(f.Key, f.Value.Text)
		if err != nil {
			return nil, err
		}
		copy(out[i*BlockSize:], b)
	}
	return out, nil
}

package ltx

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// Stored values carry a one-byte tag: raw, or an lz4 block prefixed with the
// decoded length. Incompressible values (most single entries are tiny) fall
// back to the raw layout.
const (
	entryRaw byte = 0
	entryLZ4 byte = 1
)

func compressValue(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	buf := make([]byte, 5+bound)
	n, err := lz4.CompressBlock(data, buf[5:], nil)
	if err != nil {
		return nil, fmt.Errorf("ltx: compress entry: %w", err)
	}
	if n == 0 || n >= len(data) {
		out := make([]byte, 1+len(data))
		out[0] = entryRaw
		copy(out[1:], data)
		return out, nil
	}
	buf[0] = entryLZ4
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(data)))
	return buf[:5+n], nil
}

func decompressValue(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("ltx: empty stored entry")
	}
	switch data[0] {
	case entryRaw:
		return data[1:], nil
	case entryLZ4:
		if len(data) < 5 {
			return nil, fmt.Errorf("ltx: truncated compressed entry")
		}
		size := binary.BigEndian.Uint32(data[1:5])
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data[5:], out)
		if err != nil {
			return nil, fmt.Errorf("ltx: decompress entry: %w", err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("ltx: compressed entry decodes to %d bytes, want %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("ltx: unknown entry encoding %#x", data[0])
	}
}

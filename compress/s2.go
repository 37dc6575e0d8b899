package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/renode/packet/errs"
)

// S2Compressor compresses trace payloads with S2, trading ratio for speed.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data using S2 block compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block.
func (c S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("s2", nil, size)
	}

	if err := checkHint("s2", data, size, 0); err != nil {
		return nil, err
	}

	if n, err := s2.DecodedLen(data); err == nil && n != size {
		return nil, fmt.Errorf("%w: s2 block holds %d bytes, want %d", errs.ErrDecompressedSize, n, size)
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return checkSize("s2", out, size)
}

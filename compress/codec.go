package compress

import (
	"fmt"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/format"
)

// Compressor compresses a trace payload.
//
// The returned slice is owned by the caller and the input is not modified,
// except for the no-op codec which returns its input.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// size is the expected decompressed length as recorded in the trace header.
// Implementations return errs.ErrDecompressedSize when the result differs.
type Decompressor interface {
	Decompress(data []byte, size int) ([]byte, error)
}

// MaxDecompressedSize is the largest decompressed length any codec accepts.
// Size hints come from trace headers and are not trusted.
const MaxDecompressedSize = 256 << 20

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for a compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (%d)", errs.ErrUnsupportedCompression, compressionType, uint8(compressionType))
}

func checkSize(codec string, got []byte, size int) ([]byte, error) {
	if len(got) != size {
		return nil, fmt.Errorf("%w: %s produced %d bytes, want %d", errs.ErrDecompressedSize, codec, len(got), size)
	}

	return got, nil
}

// checkHint rejects a size hint that is negative, above MaxDecompressedSize,
// or larger than maxRatio times the compressed input. A zero maxRatio skips
// the ratio bound.
func checkHint(codec string, data []byte, size, maxRatio int) error {
	if size < 0 || size > MaxDecompressedSize {
		return fmt.Errorf("%w: %s size hint %d outside [0, %d]", errs.ErrDecompressedSize, codec, size, MaxDecompressedSize)
	}
	if maxRatio > 0 && size > len(data)*maxRatio {
		return fmt.Errorf("%w: %s cannot expand %d bytes to %d", errs.ErrDecompressedSize, codec, len(data), size)
	}

	return nil
}

// initialCapacity bounds the buffer preallocated for a decoder whose output
// grows on demand.
func initialCapacity(data []byte, size int) int {
	return min(size, len(data)*preallocRatio)
}

const preallocRatio = 8

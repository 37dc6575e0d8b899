// Package format holds the small enumerations stored in trace headers.
package format

import (
	"fmt"
	"strings"

	"github.com/renode/packet/errs"
)

// CompressionType identifies the codec applied to a trace payload.
// It is stored in a 4-bit header field.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload as is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompression parses a compression name such as "zstd" or "lz4",
// case-insensitively.
func ParseCompression(name string) (CompressionType, error) {
	for c := CompressionNone; c <= CompressionLZ4; c++ {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, name)
}

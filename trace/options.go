package trace

import (
	"fmt"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/format"
	"github.com/renode/packet/internal/options"
)

type writerConfig struct {
	compression format.CompressionType
	checksum    bool
	bigEndian   bool
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithCompression selects the payload codec. The default is zstd.
func WithCompression(compression format.CompressionType) WriterOption {
	return options.New(func(c *writerConfig) error {
		if !compression.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint8(compression))
		}
		c.compression = compression

		return nil
	})
}

// WithChecksum enables or disables the xxhash64 checksum of the raw payload.
// It is enabled by default.
func WithChecksum(enabled bool) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.checksum = enabled
	})
}

// WithBigEndianEntries writes entry headers most significant byte first.
func WithBigEndianEntries() WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.bigEndian = true
	})
}

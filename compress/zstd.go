package compress

// ZstdCompressor compresses trace payloads with Zstandard.
//
// Packet captures repeat the same descriptors and setup packets many times,
// which Zstd compresses well. Two backends exist: the pure Go
// klauspost/compress/zstd (default) and the cgo valyala/gozstd binding,
// selected with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

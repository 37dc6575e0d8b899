// Package compress provides the payload codecs used by trace files.
//
// A trace payload is the concatenation of encoded packets with their entry
// headers. Captures repeat the same descriptors and control transfers, so
// general-purpose block compression removes most of their size.
//
// # Codecs
//
//   - None: stores the payload as-is.
//   - Zstd: best ratio. Pure Go by default; build with -tags gozstd to use
//     the cgo binding.
//   - S2: fast compression with moderate ratio.
//   - LZ4: fastest decompression.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	raw, err := codec.Decompress(packed, len(payload))
//
// Every codec is stateless and safe for concurrent use.
package compress

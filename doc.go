// Package packet is a declarative, bit-precise binary codec for hardware
// packets, descriptors and register layouts.
//
// A record type is described once with a Builder. Each field names a typed
// accessor and its placement: explicit byte and bit offsets, bit width,
// alignment, padding, byte order and an optional presence predicate. The
// compiled Schema converts between records and their exact wire bytes.
//
// # Basic Usage
//
//	type Setup struct {
//		Recipient uint8
//		Type      uint8
//		Direction bool
//		Request   uint8
//		Value     uint16
//	}
//
//	var setupSchema = packet.Define[Setup]().LSBFirst().Fields(
//		packet.Uint("Recipient", func(s *Setup) *uint8 { return &s.Recipient }, packet.Bits(5)),
//		packet.Uint("Type", func(s *Setup) *uint8 { return &s.Type }, packet.AtBits(5), packet.Bits(2)),
//		packet.Bool("Direction", func(s *Setup) *bool { return &s.Direction }, packet.AtBits(7)),
//		packet.Uint("Request", func(s *Setup) *uint8 { return &s.Request }, packet.At(1, 0)),
//		packet.Uint("Value", func(s *Setup) *uint16 { return &s.Value }),
//	).MustBuild()
//
//	data, err := setupSchema.Encode(&setup)
//	setup, n, err := setupSchema.Decode(data, 0)
//
// # Layout Rules
//
// Fields are placed in declaration order (or Order) with a running byte
// cursor. An explicit offset resets the cursor; padding is added, then the
// offset is rounded up to the alignment. A field occupies
// ceil((bit offset + width) / 8) bytes. The record length is the furthest
// field end, or the asserted Width. Bits are numbered from the least
// significant bit of each byte. Multi-byte values are most significant byte
// first unless the field or record is LSBFirst.
//
// # Optional Fields
//
// PresentIf makes a field optional. An absent field takes no space. The
// presence of every optional field in a record tree is captured in a
// Presence bitmap, which keys the memoized layouts. On decode, predicates are
// evaluated against the record decoded so far; DecodeInto lets callers seed
// values that predicates read.
//
// # Thread Safety
//
// Schemas are immutable after Build and safe for concurrent use. Encode and
// Decode only touch caller buffers and records. Tables, layouts and offsets
// are memoized in a cache.Cache, which is safe for concurrent use.
package packet

// Package endian provides the byte order helpers used by the packet codec.
//
// Record fields are stored either least-significant-byte first (LSB first,
// little-endian) or most-significant-byte first (MSB first, big-endian, the
// codec default). This package maps that flag onto the encoding/binary byte
// orders and adds width-generic helpers for the 1, 2, 4 and 8 byte element
// sizes the codec supports.
//
// # Basic Usage
//
//	engine := endian.ForLSBFirst(true)
//	engine.PutUint32(buf, 0x12345678) // buf = 78 56 34 12
//
//	endian.PutUint(engine, buf, v, 2) // width-generic store
//	v = endian.Uint(engine, buf, 2)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math/bits"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForLSBFirst returns the little-endian engine when lsbFirst is set and the
// big-endian engine otherwise.
func ForLSBFirst(lsbFirst bool) EndianEngine {
	if lsbFirst {
		return GetLittleEndianEngine()
	}

	return GetBigEndianEngine()
}

// PutUint stores the low size bytes of v into b using engine.
// size must be 1, 2, 4 or 8 and b must hold at least size bytes.
func PutUint(engine EndianEngine, b []byte, v uint64, size int) {
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		engine.PutUint16(b, uint16(v))
	case 4:
		engine.PutUint32(b, uint32(v))
	case 8:
		engine.PutUint64(b, v)
	default:
		panic("endian: unsupported size")
	}
}

// Uint loads a size-byte unsigned value from b using engine.
// size must be 1, 2, 4 or 8.
func Uint(engine EndianEngine, b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(engine.Uint16(b))
	case 4:
		return uint64(engine.Uint32(b))
	case 8:
		return engine.Uint64(b)
	default:
		panic("endian: unsupported size")
	}
}

// Reverse reverses the order of the low n bytes of v. Bytes above n are dropped.
// n must be between 0 and 8.
func Reverse(v uint64, n int) uint64 {
	if n <= 1 {
		if n == 0 {
			return 0
		}

		return v & 0xFF
	}

	return bits.ReverseBytes64(v) >> (64 - 8*uint(n))
}

// PackMSB lays out the low width bits of v most significant group first, in
// the least-significant-bit-first order the codec writes bits. Whole bytes
// take the leading positions; when width is not a multiple of 8 the final
// group holds the remaining low-order bits of v in its low bits.
//
//	PackMSB(0xABC, 12) == 0xCAB // bytes AB, then C in the low nibble
//
// Widths of 8 or less are returned unchanged.
func PackMSB(v uint64, width int) uint64 {
	n := (width + 7) / 8
	if n <= 1 {
		return v
	}

	pad := uint(n*8 - width)
	r := Reverse(v<<pad, n)
	if pad == 0 {
		return r
	}

	low := uint(8 * (n - 1))

	return r&(1<<low-1) | (r>>low)>>pad<<low
}

// UnpackMSB is the inverse of PackMSB.
func UnpackMSB(u uint64, width int) uint64 {
	n := (width + 7) / 8
	if n <= 1 {
		return u
	}

	pad := uint(n*8 - width)
	if pad == 0 {
		return Reverse(u, n)
	}

	low := uint(8 * (n - 1))
	r := u&(1<<low-1) | (u>>low)<<pad<<low

	return Reverse(r, n) >> pad
}

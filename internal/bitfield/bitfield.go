// Package bitfield splices bit runs into and out of byte slices.
//
// Bit positions count from the least significant bit of byte 0: bit 0 is
// b[0]&0x01, bit 7 is b[0]&0x80, bit 8 is b[1]&0x01 and so on. A run of width
// bits at position pos holds its least significant bit at pos.
package bitfield

// Mask returns a mask with the low width bits set. width must be 0..64.
func Mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(width)) - 1
}

// Span returns the number of bytes touched by a run of width bits starting at
// bit offset bitOff within its first byte.
func Span(bitOff, width int) int {
	return (bitOff + width + 7) / 8
}

// Put writes the low width bits of v at bit position pos of b.
// Bits of b outside the run are preserved. b must hold the whole run.
func Put(b []byte, pos, width int, v uint64) {
	v &= Mask(width)

	i := pos / 8
	shift := pos % 8

	// Byte-aligned whole bytes are the common case for register layouts.
	if shift == 0 && width%8 == 0 {
		for n := width / 8; n > 0; n-- {
			b[i] = byte(v)
			v >>= 8
			i++
		}

		return
	}

	for width > 0 {
		chunk := 8 - shift
		if chunk > width {
			chunk = width
		}

		m := byte(Mask(chunk)) << uint(shift)
		b[i] = (b[i] &^ m) | (byte(v<<uint(shift)) & m)

		v >>= uint(chunk)
		width -= chunk
		shift = 0
		i++
	}
}

// Get reads width bits at bit position pos of b.
func Get(b []byte, pos, width int) uint64 {
	i := pos / 8
	shift := pos % 8

	var v uint64
	got := 0

	if shift == 0 && width%8 == 0 {
		for n := 0; n < width/8; n++ {
			v |= uint64(b[i+n]) << uint(8*n)
		}

		return v
	}

	for got < width {
		chunk := 8 - shift
		if chunk > width-got {
			chunk = width - got
		}

		part := (uint64(b[i]) >> uint(shift)) & Mask(chunk)
		v |= part << uint(got)

		got += chunk
		shift = 0
		i++
	}

	return v
}

// Package hash computes stable 64-bit fingerprints with xxHash64.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Fingerprint accumulates strings and integers into one xxHash64 value.
//
// Every value is framed (strings are length-prefixed) so that different
// sequences of writes never produce the same byte stream.
type Fingerprint struct {
	d   *xxhash.Digest
	buf [binary.MaxVarintLen64]byte
}

// NewFingerprint creates an empty fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{d: xxhash.New()}
}

// String adds s to the fingerprint.
func (f *Fingerprint) String(s string) *Fingerprint {
	f.Int(int64(len(s)))
	_, _ = f.d.WriteString(s)

	return f
}

// Int adds v to the fingerprint.
func (f *Fingerprint) Int(v int64) *Fingerprint {
	n := binary.PutVarint(f.buf[:], v)
	_, _ = f.d.Write(f.buf[:n])

	return f
}

// Bool adds b to the fingerprint.
func (f *Fingerprint) Bool(b bool) *Fingerprint {
	if b {
		return f.Int(1)
	}

	return f.Int(0)
}

// Uint64 adds a previously computed fingerprint, e.g. of a nested record.
func (f *Fingerprint) Uint64(v uint64) *Fingerprint {
	binary.LittleEndian.PutUint64(f.buf[:8], v)
	_, _ = f.d.Write(f.buf[:8])

	return f
}

// Sum64 returns the current fingerprint value.
func (f *Fingerprint) Sum64() uint64 {
	return f.d.Sum64()
}

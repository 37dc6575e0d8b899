package packet

import (
	"fmt"
	"math/bits"
)

// PresenceCapacity is the number of optional fields a record tree can address.
const PresenceCapacity = 128

// Presence is a 128-bit bitmap with one bit per optional field of a record
// tree, in schema order. Bit i is set when the i-th optional field is present.
//
// A nested record field reserves a contiguous run of bits for the optional
// fields inside it, so a single Presence fixes the layout of the whole record.
// Presence is comparable and is used as part of layout cache keys.
type Presence struct {
	lo, hi uint64
}

// FullPresence returns a bitmap with the low n bits set.
func FullPresence(n int) Presence {
	switch {
	case n <= 0:
		return Presence{}
	case n < 64:
		return Presence{lo: (uint64(1) << uint(n)) - 1}
	case n == 64:
		return Presence{lo: ^uint64(0)}
	case n < 128:
		return Presence{lo: ^uint64(0), hi: (uint64(1) << uint(n-64)) - 1}
	default:
		return Presence{lo: ^uint64(0), hi: ^uint64(0)}
	}
}

// Has reports whether bit i is set.
func (p Presence) Has(i int) bool {
	switch {
	case i < 0 || i >= PresenceCapacity:
		return false
	case i < 64:
		return p.lo&(uint64(1)<<uint(i)) != 0
	default:
		return p.hi&(uint64(1)<<uint(i-64)) != 0
	}
}

// With returns p with bit i set. Out of range bits are ignored.
func (p Presence) With(i int) Presence {
	switch {
	case i < 0 || i >= PresenceCapacity:
	case i < 64:
		p.lo |= uint64(1) << uint(i)
	default:
		p.hi |= uint64(1) << uint(i-64)
	}

	return p
}

// Without returns p with bit i cleared.
func (p Presence) Without(i int) Presence {
	switch {
	case i < 0 || i >= PresenceCapacity:
	case i < 64:
		p.lo &^= uint64(1) << uint(i)
	default:
		p.hi &^= uint64(1) << uint(i-64)
	}

	return p
}

// Or returns the union of p and q.
func (p Presence) Or(q Presence) Presence {
	return Presence{lo: p.lo | q.lo, hi: p.hi | q.hi}
}

// And returns the intersection of p and q.
func (p Presence) And(q Presence) Presence {
	return Presence{lo: p.lo & q.lo, hi: p.hi & q.hi}
}

// Shl shifts p left by n bits.
func (p Presence) Shl(n int) Presence {
	switch {
	case n <= 0:
		return p
	case n >= 128:
		return Presence{}
	case n >= 64:
		return Presence{hi: p.lo << uint(n-64)}
	default:
		return Presence{lo: p.lo << uint(n), hi: p.hi<<uint(n) | p.lo>>uint(64-n)}
	}
}

// Shr shifts p right by n bits.
func (p Presence) Shr(n int) Presence {
	switch {
	case n <= 0:
		return p
	case n >= 128:
		return Presence{}
	case n >= 64:
		return Presence{lo: p.hi >> uint(n-64)}
	default:
		return Presence{lo: p.lo>>uint(n) | p.hi<<uint(64-n), hi: p.hi >> uint(n)}
	}
}

// Extract returns the n bits of p starting at base, shifted down to bit 0.
func (p Presence) Extract(base, n int) Presence {
	return p.Shr(base).And(FullPresence(n))
}

// Insert returns p with the low n bits of q placed at base.
func (p Presence) Insert(base, n int, q Presence) Presence {
	mask := FullPresence(n)

	return p.And(invert(mask.Shl(base))).Or(q.And(mask).Shl(base))
}

// Count returns the number of set bits.
func (p Presence) Count() int {
	return bits.OnesCount64(p.lo) + bits.OnesCount64(p.hi)
}

// IsZero reports whether no bit is set.
func (p Presence) IsZero() bool {
	return p.lo == 0 && p.hi == 0
}

// String returns the bitmap as a 128-bit hexadecimal number.
func (p Presence) String() string {
	return fmt.Sprintf("%016x%016x", p.hi, p.lo)
}

func invert(p Presence) Presence {
	return Presence{lo: ^p.lo, hi: ^p.hi}
}

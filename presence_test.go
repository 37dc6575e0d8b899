package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullPresence(t *testing.T) {
	require.True(t, FullPresence(0).IsZero())
	require.Equal(t, 1, FullPresence(1).Count())
	require.Equal(t, 64, FullPresence(64).Count())
	require.Equal(t, 65, FullPresence(65).Count())
	require.Equal(t, 128, FullPresence(128).Count())
	require.Equal(t, 128, FullPresence(500).Count())

	require.True(t, FullPresence(65).Has(64))
	require.False(t, FullPresence(65).Has(65))
}

func TestPresenceBits(t *testing.T) {
	var p Presence
	p = p.With(0).With(63).With(64).With(127)

	for _, i := range []int{0, 63, 64, 127} {
		require.True(t, p.Has(i), "bit %d", i)
	}
	require.False(t, p.Has(1))
	require.False(t, p.Has(-1))
	require.False(t, p.Has(128))
	require.Equal(t, 4, p.Count())

	p = p.Without(63).With(200)
	require.False(t, p.Has(63))
	require.Equal(t, 3, p.Count())

	require.Equal(t, "80000000000000010000000000000001", p.String())
}

func TestPresenceShift(t *testing.T) {
	p := Presence{}.With(0).With(62)

	require.Equal(t, Presence{}.With(2).With(64), p.Shl(2))
	require.Equal(t, Presence{}.With(64).With(126), p.Shl(64))
	require.Equal(t, Presence{}.With(127), Presence{}.With(0).Shl(127))
	require.True(t, p.Shl(128).IsZero())

	require.Equal(t, p, p.Shl(2).Shr(2))
	require.Equal(t, p, p.Shl(64).Shr(64))
	require.Equal(t, Presence{}.With(0), Presence{}.With(100).Shr(100))
	require.True(t, p.Shr(128).IsZero())
}

func TestPresenceExtractInsert(t *testing.T) {
	sub := Presence{}.With(0).With(2)

	p := Presence{}.With(0).Insert(62, 3, sub)
	require.Equal(t, Presence{}.With(0).With(62).With(64), p)
	require.Equal(t, sub, p.Extract(62, 3))

	// Insert replaces the window and keeps bits outside it.
	p = FullPresence(128).Insert(10, 4, Presence{})
	require.Equal(t, 124, p.Count())
	require.True(t, p.Extract(10, 4).IsZero())

	// Bits of the inserted value above n are ignored.
	p = Presence{}.Insert(0, 2, FullPresence(8))
	require.Equal(t, FullPresence(2), p)
}

func TestPresenceComparable(t *testing.T) {
	m := map[Presence]int{FullPresence(3): 1}
	require.Equal(t, 1, m[Presence{}.With(0).With(1).With(2)])
}

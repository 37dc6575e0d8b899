package packet

import (
	"fmt"
	"strings"

	"github.com/renode/packet/cache"
	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/bitfield"
)

type layoutKey struct {
	id       uint64
	presence Presence
}

type offsetKey struct {
	id       uint64
	presence Presence
	path     string
}

// layout is the placement of a record's fields for one presence bitmap.
type layout struct {
	bits    int   // total length in bits, the asserted width when there is one
	end     int   // furthest field end in bits
	offsets []int // byte offset of each field, -1 when absent
	widths  []int // bits occupied by each field
}

func (t *Table) layout(p Presence) *layout {
	l, _ := cache.Get(t.cache, layoutKey{t.id, p}, func() (*layout, error) {
		return t.computeLayout(p), nil
	})

	return l
}

func (t *Table) computeLayout(p Presence) *layout {
	l := &layout{
		offsets: make([]int, len(t.Fields)),
		widths:  make([]int, len(t.Fields)),
	}

	cursor := 0
	for i := range t.Fields {
		d := &t.Fields[i]
		if d.Optional && !p.Has(t.bit[i]) {
			l.offsets[i] = -1
			continue
		}

		off := d.place(cursor)
		width := d.Bits
		if d.Kind == KindRecord {
			width = d.Nested.layout(t.subPresence(p, i)).bits
		}

		l.offsets[i] = off
		l.widths[i] = width
		cursor = off + bitfield.Span(d.BitOffset, width)
		l.end = max(l.end, off*8+d.BitOffset+width)
	}

	l.bits = max(l.end, t.WidthBits)

	return l
}

func (t *Table) offset(p Presence, path string) (int, error) {
	return cache.Get(t.cache, offsetKey{t.id, p, path}, func() (int, error) {
		return t.computeOffset(p, path)
	})
}

func (t *Table) computeOffset(p Presence, path string) (int, error) {
	name, rest, descend := strings.Cut(path, ".")

	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", errs.ErrFieldNotFound, t.Name, name)
	}

	off := t.layout(p).offsets[i]
	if off < 0 {
		return 0, fmt.Errorf("%w: %s.%s", errs.ErrFieldNotPresent, t.Name, name)
	}
	if !descend {
		return off, nil
	}

	d := &t.Fields[i]
	if d.Kind != KindRecord {
		return 0, fmt.Errorf("%w: %s.%s is not a record", errs.ErrFieldNotFound, t.Name, name)
	}

	inner, err := d.Nested.offset(t.subPresence(p, i), rest)
	if err != nil {
		return 0, err
	}

	return off + inner, nil
}

func bytesFor(bits int) int {
	return (bits + 7) / 8
}

// Length returns the upper bound encoded length in bytes, with every optional
// field present.
func (s *Schema[T]) Length() int {
	return bytesFor(s.LengthBits())
}

// LengthBits returns the upper bound encoded length in bits.
func (s *Schema[T]) LengthBits() int {
	t := s.Table()
	return t.layout(FullPresence(t.PresenceBits)).bits
}

// LengthOf returns the exact encoded length of rec in bytes.
func (s *Schema[T]) LengthOf(rec *T) int {
	return bytesFor(s.Table().layout(s.Presence(rec)).bits)
}

// LengthFor returns the encoded length in bytes for a presence bitmap.
func (s *Schema[T]) LengthFor(p Presence) int {
	return bytesFor(s.Table().layout(p).bits)
}

// Offset returns the byte offset of a field in the upper bound layout. Dotted
// paths address fields of nested records.
func (s *Schema[T]) Offset(path string) (int, error) {
	t := s.Table()
	return t.offset(FullPresence(t.PresenceBits), path)
}

// OffsetOf returns the byte offset of a field in the layout of rec.
// Absent optional fields report errs.ErrFieldNotPresent.
func (s *Schema[T]) OffsetOf(rec *T, path string) (int, error) {
	return s.Table().offset(s.Presence(rec), path)
}

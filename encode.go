package packet

import (
	"slices"
)

// Encode returns the wire bytes of rec. rec is not modified.
// A nil rec encodes as the zero record.
func (s *Schema[T]) Encode(rec *T) ([]byte, error) {
	return s.AppendEncode(make([]byte, 0, s.Length()), rec)
}

// AppendEncode appends the wire bytes of rec to dst.
func (s *Schema[T]) AppendEncode(dst []byte, rec *T) ([]byte, error) {
	if rec == nil {
		rec = new(T)
	}

	p := s.Presence(rec)
	n := s.LengthFor(p)

	start := len(dst)
	dst = slices.Grow(dst, n)[:start+n]
	clear(dst[start:])

	if err := s.encodeAt(rec, dst[start:], p); err != nil {
		return dst[:start], err
	}

	return dst, nil
}

// encodeAt writes rec into buf, which starts at the record's first byte and
// holds at least its exact length.
func (s *Schema[T]) encodeAt(rec *T, buf []byte, p Presence) error {
	t := s.Table()
	l := t.layout(p)

	for i := range t.Fields {
		off := l.offsets[i]
		if off < 0 {
			continue
		}

		d := &t.Fields[i]
		var sub Presence
		if d.Kind == KindRecord {
			sub = t.subPresence(p, i)
		}
		if err := s.access[i].encode(rec, buf, off, d, sub); err != nil {
			return err
		}
	}

	return nil
}

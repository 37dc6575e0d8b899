package packet

import (
	"fmt"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/bitfield"
)

// Decode decodes a record starting at data[offset:]. It returns the record and
// the number of bytes consumed.
//
// When data ends before a present field, the error is an
// *errs.InsufficientDataError matching errs.ErrInsufficientData; callers may
// retry once more bytes arrive.
func (s *Schema[T]) Decode(data []byte, offset int) (T, int, error) {
	var rec T
	n, err := s.DecodeInto(data, offset, &rec)

	return rec, n, err
}

// DecodeInto decodes into an existing record and returns the number of bytes
// consumed. Presence predicates see rec as decoded so far, so values stored in
// rec beforehand can select which optional fields are read. Absent fields are
// left untouched. On error, fields decoded before the failing one stay assigned.
func (s *Schema[T]) DecodeInto(data []byte, offset int, rec *T) (int, error) {
	if offset < 0 || offset > len(data) {
		return 0, fmt.Errorf("%w: offset %d, data length %d", errs.ErrInvalidOffset, offset, len(data))
	}
	if rec == nil {
		return 0, fmt.Errorf("%w: nil %s target", errs.ErrUnsupportedValue, s.name)
	}

	bits, err := s.decodeAt(rec, data, offset)
	if err != nil {
		return 0, err
	}

	return bytesFor(bits), nil
}

// decodeAt decodes rec from data starting at byte base and returns its length
// in bits. Offsets in errors are measured from the start of data.
func (s *Schema[T]) decodeAt(rec *T, data []byte, base int) (int, error) {
	t := s.Table()

	cursor, end := 0, 0
	for i := range t.Fields {
		d := &t.Fields[i]
		if d.Optional && !s.preds[i](rec) {
			continue
		}

		off := d.place(cursor)
		abs := base + off

		if d.Kind != KindRecord {
			if need := abs + bitfield.Span(d.BitOffset, d.Bits); need > len(data) {
				return 0, &errs.InsufficientDataError{Record: t.Name, Field: d.Name, Need: need, Have: len(data)}
			}
		}

		width, err := s.access[i].decode(rec, data, abs, d)
		if err != nil {
			return 0, err
		}

		cursor = off + bitfield.Span(d.BitOffset, width)
		end = max(end, off*8+d.BitOffset+width)
	}

	bits := max(end, t.WidthBits)
	if need := base + bytesFor(bits); need > len(data) {
		return 0, &errs.InsufficientDataError{Record: t.Name, Need: need, Have: len(data)}
	}

	return bits, nil
}

package packet

import (
	"fmt"
	"reflect"

	"github.com/renode/packet/errs"
)

// Subtype is a schema viewed without its record type. Every *Schema[T]
// implements it; selectors passed to DecodeSubtype return one.
type Subtype interface {
	Name() string
	Type() reflect.Type
	Fingerprint() uint64
	Table() *Table

	// DecodeAny decodes a record and returns a pointer to it.
	DecodeAny(data []byte, offset int) (any, int, error)
	// EncodeAny encodes a value of the record type or a pointer to one.
	EncodeAny(v any) ([]byte, error)

	isNil() bool
}

// DecodeAny decodes a record and returns it as *T.
func (s *Schema[T]) DecodeAny(data []byte, offset int) (any, int, error) {
	rec := new(T)
	n, err := s.DecodeInto(data, offset, rec)
	if err != nil {
		return nil, 0, err
	}

	return rec, n, nil
}

// EncodeAny encodes v, which must be a T or a *T.
func (s *Schema[T]) EncodeAny(v any) ([]byte, error) {
	switch rec := v.(type) {
	case *T:
		return s.Encode(rec)
	case T:
		return s.Encode(&rec)
	default:
		return nil, fmt.Errorf("%w: %T is not a %s", errs.ErrUnsupportedValue, v, s.typ)
	}
}

// DecodeSubtype decodes a record whose concrete type is chosen from the data.
//
// selector receives data[offset:] and returns the schema to decode with. The
// result is returned as B: the decoded *T when *T is assignable to B, else the
// T value when T is. A nil selection is errs.ErrNoSubtype; a type that fits
// neither way is errs.ErrIncompatibleSubtype.
func DecodeSubtype[B any](data []byte, offset int, selector func(data []byte) Subtype) (B, int, error) {
	var zero B

	if offset < 0 || offset > len(data) {
		return zero, 0, fmt.Errorf("%w: offset %d, data length %d", errs.ErrInvalidOffset, offset, len(data))
	}

	st := selector(data[offset:])
	if st == nil || st.isNil() {
		return zero, 0, errs.ErrNoSubtype
	}

	want := reflect.TypeFor[B]()
	byPointer := reflect.PointerTo(st.Type()).AssignableTo(want)
	if !byPointer && !st.Type().AssignableTo(want) {
		return zero, 0, fmt.Errorf("%w: %s is not assignable to %s", errs.ErrIncompatibleSubtype, st.Type(), want)
	}

	ptr, n, err := st.DecodeAny(data, offset)
	if err != nil {
		return zero, 0, err
	}

	if byPointer {
		return ptr.(B), n, nil
	}

	return reflect.ValueOf(ptr).Elem().Interface().(B), n, nil
}

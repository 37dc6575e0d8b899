package packet

import (
	"fmt"
	"unsafe"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/options"
)

// Unsigned is the set of unsigned integer field types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed is the set of signed integer field types.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Integer is the set of integer field and array element types.
type Integer interface {
	Unsigned | Signed
}

// Field declares one member of a record T. Fields are created with the typed
// constructors (Uint, Int, Bool, Array, Nested, ...) and passed to
// Builder.Fields.
type Field[T any] struct {
	name   string
	kind   Kind
	size   int
	opts   []FieldOption
	access accessor[T]

	nested  tabler
	viewLen func() int
	err     error
}

type tabler interface {
	Table() *Table
}

func newField[T any](name string, kind Kind, size int, access accessor[T], ok bool, opts []FieldOption) Field[T] {
	f := Field[T]{name: name, kind: kind, size: size, opts: opts, access: access}
	if !ok {
		f.err = fmt.Errorf("%w: nil accessor", errs.ErrInvalidOption)
	}

	return f
}

func sizeOf[V Integer]() int {
	var v V
	return int(unsafe.Sizeof(v))
}

// Uint declares an unsigned integer field.
func Uint[T any, V Unsigned](name string, ref func(*T) *V, opts ...FieldOption) Field[T] {
	a := scalarAccess[T]{
		load:  func(r *T) uint64 { return uint64(*ref(r)) },
		store: func(r *T, u uint64) { *ref(r) = V(u) },
	}

	return newField(name, KindUint, sizeOf[V](), accessor[T](a), ref != nil, opts)
}

// Int declares a signed integer field. Values are masked to the field width
// on encode and are not sign extended on decode.
func Int[T any, V Signed](name string, ref func(*T) *V, opts ...FieldOption) Field[T] {
	a := scalarAccess[T]{
		load:  func(r *T) uint64 { return uint64(*ref(r)) },
		store: func(r *T, u uint64) { *ref(r) = V(u) },
	}

	return newField(name, KindInt, sizeOf[V](), accessor[T](a), ref != nil, opts)
}

// Bool declares a single bit field.
func Bool[T any](name string, ref func(*T) *bool, opts ...FieldOption) Field[T] {
	a := scalarAccess[T]{
		load:  func(r *T) uint64 { return boolBit(*ref(r)) },
		store: func(r *T, u uint64) { *ref(r) = u != 0 },
	}

	return newField(name, KindBool, 1, accessor[T](a), ref != nil, opts)
}

// NullUint declares a nullable unsigned field. A nil value encodes as zero;
// decoding allocates.
func NullUint[T any, V Unsigned](name string, ref func(*T) **V, opts ...FieldOption) Field[T] {
	return newField(name, KindUint, sizeOf[V](), accessor[T](nullAccess[T, V](ref)), ref != nil, opts)
}

// NullInt declares a nullable signed field.
func NullInt[T any, V Signed](name string, ref func(*T) **V, opts ...FieldOption) Field[T] {
	return newField(name, KindInt, sizeOf[V](), accessor[T](nullAccess[T, V](ref)), ref != nil, opts)
}

// NullBool declares a nullable single bit field.
func NullBool[T any](name string, ref func(*T) **bool, opts ...FieldOption) Field[T] {
	a := scalarAccess[T]{
		load: func(r *T) uint64 {
			if p := *ref(r); p != nil {
				return boolBit(*p)
			}
			return 0
		},
		store: func(r *T, u uint64) {
			v := u != 0
			*ref(r) = &v
		},
	}

	return newField(name, KindBool, 1, accessor[T](a), ref != nil, opts)
}

func nullAccess[T any, V Integer](ref func(*T) **V) scalarAccess[T] {
	return scalarAccess[T]{
		load: func(r *T) uint64 {
			if p := *ref(r); p != nil {
				return uint64(*p)
			}
			return 0
		},
		store: func(r *T, u uint64) {
			v := V(u)
			*ref(r) = &v
		},
	}
}

// Slice declares an integer array field backed by a Go slice. A nil slice
// encodes as zeros; any other length, empty included, must match the element
// count.
// Decoding allocates a new slice.
func Slice[T any, V Integer](name string, ref func(*T) *[]V, opts ...FieldOption) Field[T] {
	return newField(name, KindArray, sizeOf[V](), accessor[T](sliceAccess[T, V]{ref: ref}), ref != nil, opts)
}

// Array declares an integer array field backed by a Go array. view returns a
// slice over the array, typically func(r *T) []byte { return r.Data[:] }.
// The view length must equal the field's element count.
func Array[T any, V Integer](name string, view func(*T) []V, opts ...FieldOption) Field[T] {
	f := newField(name, KindArray, sizeOf[V](), accessor[T](arrayAccess[T, V]{view: view}), view != nil, opts)
	if view != nil {
		f.viewLen = func() int { return len(view(new(T))) }
	}

	return f
}

// Nested declares a field holding a nested record by value.
func Nested[T, N any](name string, ref func(*T) *N, schema *Schema[N], opts ...FieldOption) Field[T] {
	f := newField(name, KindRecord, 0, accessor[T](nestedAccess[T, N]{ref: ref, schema: schema}), ref != nil, opts)
	f.setNested(schema)

	return f
}

// NestedRef declares a field holding a nested record by pointer. A nil
// pointer encodes as the zero record; decoding allocates when nil.
func NestedRef[T, N any](name string, ref func(*T) **N, schema *Schema[N], opts ...FieldOption) Field[T] {
	f := newField(name, KindRecord, 0, accessor[T](nestedRefAccess[T, N]{ref: ref, schema: schema}), ref != nil, opts)
	f.setNested(schema)

	return f
}

func (f *Field[T]) setNested(schema interface {
	tabler
	isNil() bool
}) {
	if schema.isNil() {
		if f.err == nil {
			f.err = fmt.Errorf("%w: nested schema is nil", errs.ErrUnsupportedKind)
		}
		return
	}
	f.nested = schema
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}

// fieldConfig collects field options before they are resolved into a Descriptor.
type fieldConfig struct {
	bits      int
	elements  int
	offset    int // absolute bit position
	hasOffset bool
	align     int
	padding   int
	lsbFirst  *bool
	order     *int
	pred      any
	deps      []string
}

// FieldOption configures a field declaration.
type FieldOption = options.Option[*fieldConfig]

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrInvalidOption}, args...)...)
}

func at(bits int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if bits < 0 {
			return invalid("negative offset %d bits", bits)
		}
		c.offset = bits
		c.hasOffset = true

		return nil
	})
}

// At places the field at an explicit byte offset plus bit offset. Bit offsets
// above 7 carry into bytes: At(0, 17) is byte 2, bit 1. The running cursor is
// reset so implicit fields after this one continue from here.
func At(bytes, bits int) FieldOption {
	if bytes < 0 || bits < 0 {
		return at(-1)
	}

	return at(bytes*8 + bits)
}

// AtBits places the field at an absolute bit position.
func AtBits(bits int) FieldOption { return at(bits) }

// AtWords places the field at a 16-bit word offset plus bit offset.
func AtWords(words, bits int) FieldOption { return At(words*2, bits) }

// AtDoubleWords places the field at a 32-bit double word offset plus bit offset.
func AtDoubleWords(dwords, bits int) FieldOption { return At(dwords*4, bits) }

// AtQuadWords places the field at a 64-bit quad word offset plus bit offset.
func AtQuadWords(qwords, bits int) FieldOption { return At(qwords*8, bits) }

// Bits declares the field width in bits.
func Bits(n int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if n <= 0 {
			return invalid("width must be positive, got %d bits", n)
		}
		c.bits = n

		return nil
	})
}

// Bytes declares the field width in bytes.
func Bytes(n int) FieldOption {
	if n <= 0 {
		return Bits(n)
	}

	return Bits(n * 8)
}

// Elements declares the element count of an array field.
func Elements(n int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if n <= 0 {
			return invalid("element count must be positive, got %d", n)
		}
		c.elements = n

		return nil
	})
}

// Align rounds the field offset up to a multiple of n bytes.
func Align(n int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if n <= 0 {
			return invalid("alignment must be positive, got %d", n)
		}
		c.align = n

		return nil
	})
}

// Pad skips n bytes before the field.
func Pad(n int) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if n < 0 {
			return invalid("padding must not be negative, got %d", n)
		}
		c.padding = n

		return nil
	})
}

// LSBFirst stores the field least significant byte first.
func LSBFirst() FieldOption {
	return options.NoError(func(c *fieldConfig) {
		v := true
		c.lsbFirst = &v
	})
}

// MSBFirst stores the field most significant byte first, overriding a record
// level LSBFirst.
func MSBFirst() FieldOption {
	return options.NoError(func(c *fieldConfig) {
		v := false
		c.lsbFirst = &v
	})
}

// Order overrides the declaration position used to sort fields.
func Order(n int) FieldOption {
	return options.NoError(func(c *fieldConfig) {
		c.order = &n
	})
}

// PresentIf makes the field optional. The field is encoded and decoded only
// when pred reports true. On decode pred sees the record as decoded so far.
// deps names the fields pred reads; they are checked to be laid out before
// this field.
func PresentIf[T any](pred func(*T) bool, deps ...string) FieldOption {
	return options.New(func(c *fieldConfig) error {
		if pred == nil {
			return invalid("nil presence predicate")
		}
		c.pred = pred
		c.deps = deps

		return nil
	})
}

package packet

import (
	"fmt"

	"github.com/renode/packet/endian"
	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/bitfield"
)

// accessor moves one field between a record and its wire bytes.
//
// off is the byte offset of the field inside buf or data. Leaf accessors are
// only called once the caller has checked that the field's span fits.
type accessor[T any] interface {
	encode(rec *T, buf []byte, off int, d *Descriptor, sub Presence) error
	// decode returns the number of bits the field occupies.
	decode(rec *T, data []byte, off int, d *Descriptor) (int, error)
	// presence returns the presence bitmap of a nested record subtree.
	presence(rec *T) Presence
}

type scalarAccess[T any] struct {
	load  func(*T) uint64
	store func(*T, uint64)
}

func (a scalarAccess[T]) encode(rec *T, buf []byte, off int, d *Descriptor, _ Presence) error {
	u := a.load(rec) & bitfield.Mask(d.Bits)
	if !d.LSBFirst {
		u = endian.PackMSB(u, d.Bits)
	}
	bitfield.Put(buf, off*8+d.BitOffset, d.Bits, u)

	return nil
}

func (a scalarAccess[T]) decode(rec *T, data []byte, off int, d *Descriptor) (int, error) {
	u := bitfield.Get(data, off*8+d.BitOffset, d.Bits)
	if !d.LSBFirst {
		u = endian.UnpackMSB(u, d.Bits)
	}
	a.store(rec, u)

	return d.Bits, nil
}

func (scalarAccess[T]) presence(*T) Presence { return Presence{} }

type sliceAccess[T any, V Integer] struct {
	ref func(*T) *[]V
}

func (a sliceAccess[T, V]) encode(rec *T, buf []byte, off int, d *Descriptor, _ Presence) error {
	return putElements(buf[off:], *a.ref(rec), d)
}

func (a sliceAccess[T, V]) decode(rec *T, data []byte, off int, d *Descriptor) (int, error) {
	vals := make([]V, d.Elements)
	getElements(data[off:], vals, d)
	*a.ref(rec) = vals

	return d.Bits, nil
}

func (sliceAccess[T, V]) presence(*T) Presence { return Presence{} }

type arrayAccess[T any, V Integer] struct {
	view func(*T) []V
}

func (a arrayAccess[T, V]) encode(rec *T, buf []byte, off int, d *Descriptor, _ Presence) error {
	return putElements(buf[off:], a.view(rec), d)
}

func (a arrayAccess[T, V]) decode(rec *T, data []byte, off int, d *Descriptor) (int, error) {
	getElements(data[off:], a.view(rec), d)
	return d.Bits, nil
}

func (arrayAccess[T, V]) presence(*T) Presence { return Presence{} }

// putElements writes vals, or leaves the zeroed field untouched when vals is
// nil. Any other length must match the element count.
func putElements[V Integer](buf []byte, vals []V, d *Descriptor) error {
	if vals == nil {
		return nil
	}
	if len(vals) != d.Elements {
		return fmt.Errorf("%w: field %s holds %d elements, layout has %d",
			errs.ErrArrayLength, d.Name, len(vals), d.Elements)
	}

	if d.Size == 1 {
		for i, v := range vals {
			buf[i] = byte(v)
		}
		return nil
	}

	engine := endian.ForLSBFirst(d.LSBFirst)
	for i, v := range vals {
		endian.PutUint(engine, buf[i*d.Size:], uint64(v), d.Size)
	}

	return nil
}

func getElements[V Integer](data []byte, vals []V, d *Descriptor) {
	n := min(len(vals), d.Elements)

	if d.Size == 1 {
		for i := range n {
			vals[i] = V(data[i])
		}
		return
	}

	engine := endian.ForLSBFirst(d.LSBFirst)
	for i := range n {
		vals[i] = V(endian.Uint(engine, data[i*d.Size:], d.Size))
	}
}

type nestedAccess[T, N any] struct {
	ref    func(*T) *N
	schema *Schema[N]
}

func (a nestedAccess[T, N]) encode(rec *T, buf []byte, off int, _ *Descriptor, sub Presence) error {
	return a.schema.encodeAt(a.ref(rec), buf[off:], sub)
}

func (a nestedAccess[T, N]) decode(rec *T, data []byte, off int, _ *Descriptor) (int, error) {
	return a.schema.decodeAt(a.ref(rec), data, off)
}

func (a nestedAccess[T, N]) presence(rec *T) Presence {
	return a.schema.Presence(a.ref(rec))
}

type nestedRefAccess[T, N any] struct {
	ref    func(*T) **N
	schema *Schema[N]
}

func (a nestedRefAccess[T, N]) target(rec *T) *N {
	if p := *a.ref(rec); p != nil {
		return p
	}

	return new(N)
}

func (a nestedRefAccess[T, N]) encode(rec *T, buf []byte, off int, _ *Descriptor, sub Presence) error {
	return a.schema.encodeAt(a.target(rec), buf[off:], sub)
}

func (a nestedRefAccess[T, N]) decode(rec *T, data []byte, off int, _ *Descriptor) (int, error) {
	p := a.ref(rec)
	if *p == nil {
		*p = new(N)
	}

	return a.schema.decodeAt(*p, data, off)
}

func (a nestedRefAccess[T, N]) presence(rec *T) Presence {
	return a.schema.Presence(a.target(rec))
}

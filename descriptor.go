package packet

import (
	"reflect"

	"github.com/renode/packet/cache"
)

// Descriptor is the layout metadata of one record field.
//
// Descriptors are produced by Builder.Build and are immutable afterwards.
type Descriptor struct {
	Name string
	Kind Kind

	// Size is the natural size in bytes of the value, or of one element for
	// arrays. It is zero for nested records.
	Size int
	// Bits is the declared or natural width. For arrays it is the total width
	// of all elements. It is zero for nested records.
	Bits     int
	Elements int

	HasOffset  bool
	ByteOffset int
	BitOffset  int // 0..7, only set by explicit offsets

	Align   int
	Padding int

	Optional  bool
	DependsOn []string

	LSBFirst bool
	Order    int

	Nested *Table
}

// place returns the byte offset of the field given the running cursor.
func (d *Descriptor) place(cursor int) int {
	if d.HasOffset {
		cursor = d.ByteOffset
	}
	cursor += d.Padding
	if d.Align > 1 {
		if r := cursor % d.Align; r != 0 {
			cursor += d.Align - r
		}
	}

	return cursor
}

// Table is the compiled schema of a record type: its fields in layout order
// plus record level metadata. Tables are shared; treat them as read-only.
type Table struct {
	Name string
	Type reflect.Type

	Fields []Descriptor

	// WidthBits is the asserted total width, zero when the record has none.
	WidthBits int
	// PresenceBits is the number of presence bits used by the record tree.
	PresenceBits int
	Fingerprint  uint64

	id    uint64
	cache *cache.Cache
	bit   []int // presence bit of each optional field, -1 otherwise
	sub   []int // first presence bit of each nested subtree, -1 otherwise
	index map[string]int
}

// Field returns the descriptor of the named top-level field.
func (t *Table) Field(name string) (Descriptor, bool) {
	i, ok := t.index[name]
	if !ok {
		return Descriptor{}, false
	}

	return t.Fields[i], true
}

// OptionalFields returns the names of the optional fields in presence bit order,
// nested subtrees included with dotted paths.
func (t *Table) OptionalFields() []string {
	names := make([]string, 0, t.PresenceBits)
	for i := range t.Fields {
		d := &t.Fields[i]
		if d.Optional {
			names = append(names, d.Name)
		}
		if d.Kind == KindRecord {
			for _, n := range d.Nested.OptionalFields() {
				names = append(names, d.Name+"."+n)
			}
		}
	}

	return names
}

func (t *Table) subPresence(p Presence, i int) Presence {
	return p.Extract(t.sub[i], t.Fields[i].Nested.PresenceBits)
}

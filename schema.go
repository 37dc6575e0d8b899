package packet

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/renode/packet/cache"
	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/hash"
	"github.com/renode/packet/internal/options"
)

var schemaIDs atomic.Uint64

type tableKey struct {
	id uint64
}

// Builder declares the schema of record type T.
//
//	schema := packet.Define[SetupPacket]().LSBFirst().Fields(
//		packet.Uint("Recipient", func(p *SetupPacket) *uint8 { return &p.Recipient }, packet.Bits(5)),
//		packet.Uint("Type", func(p *SetupPacket) *uint8 { return &p.Type }, packet.AtBits(5), packet.Bits(2)),
//		...
//	).MustBuild()
type Builder[T any] struct {
	name      string
	lsbFirst  bool
	widthBits int
	cache     *cache.Cache
	fields    []Field[T]
}

// Define starts the schema declaration of record type T.
func Define[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Name sets the record name used in errors, logs and fingerprints.
// It defaults to the Go type name.
func (b *Builder[T]) Name(name string) *Builder[T] {
	b.name = name
	return b
}

// LSBFirst makes least significant byte first the default byte order of the
// record's fields.
func (b *Builder[T]) LSBFirst() *Builder[T] {
	b.lsbFirst = true
	return b
}

// Width asserts the total width of the record in bits. The encoded length is
// the asserted width even when the fields end earlier.
func (b *Builder[T]) Width(bits int) *Builder[T] {
	b.widthBits = bits
	return b
}

// Cache sets the metadata cache used by the schema. It defaults to cache.Default().
func (b *Builder[T]) Cache(c *cache.Cache) *Builder[T] {
	b.cache = c
	return b
}

// Fields appends field declarations. Declaration position is the default order.
func (b *Builder[T]) Fields(fields ...Field[T]) *Builder[T] {
	b.fields = append(b.fields, fields...)
	return b
}

// MustBuild is like Build but panics on schema errors.
func (b *Builder[T]) MustBuild() *Schema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}

	return s
}

// Build validates the declaration, compiles the schema table, checks the
// width assertion and registers the schema for T.
//
// Failures are *errs.SchemaError values wrapping one of the schema sentinels.
func (b *Builder[T]) Build() (*Schema[T], error) {
	s := &Schema[T]{
		id:        schemaIDs.Add(1),
		name:      b.name,
		typ:       reflect.TypeFor[T](),
		cache:     b.cache,
		widthBits: b.widthBits,
	}
	if s.name == "" {
		s.name = s.typ.String()
	}
	if s.cache == nil {
		s.cache = cache.Default()
	}
	if b.widthBits < 0 {
		return nil, errs.NewSchemaError(errs.ErrInvalidOption, s.name, "", "negative width %d", b.widthBits)
	}

	type entry struct {
		desc   Descriptor
		field  *Field[T]
		pred   func(*T) bool
		nested tabler
	}

	entries := make([]entry, 0, len(b.fields))
	seen := make(map[string]bool, len(b.fields))
	for i := range b.fields {
		f := &b.fields[i]
		if f.name == "" {
			return nil, errs.NewSchemaError(errs.ErrInvalidOption, s.name, "", "field %d has no name", i)
		}
		if seen[f.name] {
			return nil, errs.NewSchemaError(errs.ErrDuplicateField, s.name, f.name, "")
		}
		seen[f.name] = true

		d, pred, err := resolve(f, i, b.lsbFirst)
		if err != nil {
			return nil, errs.NewSchemaError(err, s.name, f.name, "")
		}
		entries = append(entries, entry{desc: d, field: f, pred: pred, nested: f.nested})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.desc.Order, b.desc.Order)
	})

	for _, e := range entries {
		s.decls = append(s.decls, e.desc)
		s.access = append(s.access, e.field.access)
		s.preds = append(s.preds, e.pred)
		s.nested = append(s.nested, e.nested)
	}

	t := s.compile()
	if t.PresenceBits > PresenceCapacity {
		return nil, errs.NewSchemaError(errs.ErrTooManyOptionalFields, s.name, "",
			"%d presence bits, capacity %d", t.PresenceBits, PresenceCapacity)
	}

	upper := t.computeLayout(FullPresence(t.PresenceBits))
	if b.widthBits > 0 && upper.end > b.widthBits {
		return nil, errs.NewSchemaError(errs.ErrWidthAssertion, s.name, "",
			"asserted %d bits, layout needs %d", b.widthBits, upper.end)
	}
	if err := checkDependencies(t, upper); err != nil {
		return nil, err
	}
	if err := s.checkPredicates(t, upper); err != nil {
		return nil, err
	}

	s.fingerprint = fingerprint(t)
	t.Fingerprint = s.fingerprint
	if _, err := cache.Get(s.cache, tableKey{s.id}, func() (*Table, error) { return t, nil }); err != nil {
		return nil, err
	}

	register(s)

	return s, nil
}

// resolve turns a field declaration into its descriptor.
func resolve[T any](f *Field[T], pos int, lsbFirst bool) (Descriptor, func(*T) bool, error) {
	if f.err != nil {
		return Descriptor{}, nil, f.err
	}

	var cfg fieldConfig
	if err := options.Apply(&cfg, f.opts...); err != nil {
		return Descriptor{}, nil, err
	}

	d := Descriptor{
		Name:     f.name,
		Kind:     f.kind,
		Size:     f.size,
		Align:    cfg.align,
		Padding:  cfg.padding,
		LSBFirst: lsbFirst,
		Order:    pos,
	}
	if cfg.order != nil {
		d.Order = *cfg.order
	}
	if cfg.lsbFirst != nil {
		d.LSBFirst = *cfg.lsbFirst
	}
	if cfg.hasOffset {
		d.HasOffset = true
		d.ByteOffset = cfg.offset / 8
		d.BitOffset = cfg.offset % 8
	}

	var pred func(*T) bool
	if cfg.pred != nil {
		p, ok := cfg.pred.(func(*T) bool)
		if !ok {
			return d, nil, invalid("predicate is %T, want func(*%s) bool", cfg.pred, reflect.TypeFor[T]())
		}
		pred = p
		d.Optional = true
		d.DependsOn = cfg.deps
	}

	switch f.kind {
	case KindUint, KindInt, KindBool:
		natural := f.size * 8
		if f.kind == KindBool {
			natural = 1
		}
		if cfg.elements > 0 {
			return d, nil, invalid("element count on non-array field")
		}
		d.Bits = natural
		if cfg.bits > 0 {
			if cfg.bits > natural {
				return d, nil, fmt.Errorf("%w: %d bits, natural width %d", errs.ErrWidthExceedsNatural, cfg.bits, natural)
			}
			d.Bits = cfg.bits
		}

	case KindArray:
		elemBits := f.size * 8
		if d.BitOffset != 0 {
			return d, nil, fmt.Errorf("%w: bit offset %d", errs.ErrArrayBitOffset, d.BitOffset)
		}
		switch {
		case cfg.bits == 0 && cfg.elements == 0:
			return d, nil, errs.ErrArrayWidthRequired
		case cfg.bits > 0:
			if cfg.bits%elemBits != 0 {
				return d, nil, fmt.Errorf("%w: %d bits is not a multiple of the %d bit element",
					errs.ErrWidthMismatch, cfg.bits, elemBits)
			}
			if cfg.elements > 0 && cfg.elements*elemBits != cfg.bits {
				return d, nil, fmt.Errorf("%w: %d elements of %d bits, declared %d bits",
					errs.ErrWidthMismatch, cfg.elements, elemBits, cfg.bits)
			}
			d.Bits = cfg.bits
			d.Elements = cfg.bits / elemBits
		default:
			d.Elements = cfg.elements
			d.Bits = cfg.elements * elemBits
		}
		if f.viewLen != nil {
			if n := f.viewLen(); n != d.Elements {
				return d, nil, fmt.Errorf("%w: array holds %d elements, layout has %d",
					errs.ErrWidthMismatch, n, d.Elements)
			}
		}

	case KindRecord:
		if cfg.bits > 0 || cfg.elements > 0 {
			return d, nil, invalid("width options on a nested record")
		}
		if d.BitOffset != 0 {
			return d, nil, invalid("nested record at bit offset %d", d.BitOffset)
		}

	default:
		return d, nil, errs.ErrUnsupportedKind
	}

	return d, pred, nil
}

// checkDependencies verifies that every field a predicate reads is laid out
// before the field it guards.
func checkDependencies(t *Table, upper *layout) error {
	for i := range t.Fields {
		d := &t.Fields[i]
		start := upper.offsets[i]*8 + d.BitOffset

		for _, dep := range d.DependsOn {
			j, ok := t.index[dep]
			if !ok {
				return errs.NewSchemaError(errs.ErrPredicateDependency, t.Name, d.Name, "unknown field %q", dep)
			}
			if j >= i {
				return errs.NewSchemaError(errs.ErrPredicateDependency, t.Name, d.Name,
					"%q is not decoded before this field", dep)
			}
			dd := &t.Fields[j]
			if end := upper.offsets[j]*8 + dd.BitOffset + upper.widths[j]; end > start {
				return errs.NewSchemaError(errs.ErrPredicateDependency, t.Name, d.Name,
					"%q ends at bit %d, field starts at bit %d", dep, end, start)
			}
		}
	}

	return nil
}

// checkPredicates rejects predicates that read the field they guard or a
// field decoded after it. Each such field is filled from a byte pattern and
// the predicate is re-evaluated against an otherwise zero record; a changed
// result means decode would see a different presence than encode.
func (s *Schema[T]) checkPredicates(t *Table, upper *layout) error {
	size := bytesFor(upper.bits)
	patterns := [][]byte{bytes.Repeat([]byte{0xff}, size), bytes.Repeat([]byte{0x01}, size)}

	for i := range t.Fields {
		if !t.Fields[i].Optional {
			continue
		}
		want, ok := evalPredicate(s.preds[i], new(T))
		if !ok {
			continue
		}

		for j := i; j < len(t.Fields); j++ {
			for _, pattern := range patterns {
				rec := new(T)
				if _, err := s.access[j].decode(rec, pattern, 0, &t.Fields[j]); err != nil {
					continue
				}
				if got, ok := evalPredicate(s.preds[i], rec); ok && got != want {
					return errs.NewSchemaError(errs.ErrPredicateDependency, t.Name, t.Fields[i].Name,
						"predicate reads %q, which is not decoded before this field", t.Fields[j].Name)
				}
			}
		}
	}

	return nil
}

// evalPredicate reports pred(rec); ok is false when pred panics.
func evalPredicate[T any](pred func(*T) bool, rec *T) (result, ok bool) {
	defer func() {
		if recover() != nil {
			result, ok = false, false
		}
	}()

	return pred(rec), true
}

func fingerprint(t *Table) uint64 {
	f := hash.NewFingerprint().String(t.Name).Int(int64(t.WidthBits))
	for i := range t.Fields {
		d := &t.Fields[i]
		f.String(d.Name).
			Int(int64(d.Kind)).
			Int(int64(d.Size)).
			Int(int64(d.Bits)).
			Int(int64(d.Elements)).
			Bool(d.HasOffset).
			Int(int64(d.ByteOffset)).
			Int(int64(d.BitOffset)).
			Int(int64(d.Align)).
			Int(int64(d.Padding)).
			Bool(d.Optional).
			Bool(d.LSBFirst)
		if d.Nested != nil {
			f.Uint64(d.Nested.Fingerprint)
		}
	}

	return f.Sum64()
}

// Schema is the compiled codec of record type T. It is safe for concurrent use.
type Schema[T any] struct {
	id          uint64
	name        string
	typ         reflect.Type
	cache       *cache.Cache
	widthBits   int
	fingerprint uint64

	decls  []Descriptor
	access []accessor[T]
	preds  []func(*T) bool
	nested []tabler
}

// Name returns the record name.
func (s *Schema[T]) Name() string { return s.name }

// Type returns the Go type of the record.
func (s *Schema[T]) Type() reflect.Type { return s.typ }

// Fingerprint returns a hash of the record layout. Two schemas with the same
// name and layout share a fingerprint.
func (s *Schema[T]) Fingerprint() uint64 { return s.fingerprint }

func (s *Schema[T]) isNil() bool { return s == nil }

// Table returns the compiled schema table, recompiling it if it was evicted
// from the metadata cache.
func (s *Schema[T]) Table() *Table {
	t, _ := cache.Get(s.cache, tableKey{s.id}, func() (*Table, error) {
		return s.compile(), nil
	})

	return t
}

func (s *Schema[T]) compile() *Table {
	t := &Table{
		Name:        s.name,
		Type:        s.typ,
		Fields:      make([]Descriptor, len(s.decls)),
		WidthBits:   s.widthBits,
		Fingerprint: s.fingerprint,
		id:          s.id,
		cache:       s.cache,
		bit:         make([]int, len(s.decls)),
		sub:         make([]int, len(s.decls)),
		index:       make(map[string]int, len(s.decls)),
	}

	n := 0
	for i, d := range s.decls {
		if s.nested[i] != nil {
			d.Nested = s.nested[i].Table()
		}

		t.bit[i], t.sub[i] = -1, -1
		if d.Optional {
			t.bit[i] = n
			n++
		}
		if d.Kind == KindRecord {
			t.sub[i] = n
			n += d.Nested.PresenceBits
		}

		t.Fields[i] = d
		t.index[d.Name] = i
	}
	t.PresenceBits = n

	return t
}

// Presence returns the presence bitmap of rec, evaluating every predicate of
// the record tree against it.
func (s *Schema[T]) Presence(rec *T) Presence {
	t := s.Table()

	var p Presence
	for i := range t.Fields {
		d := &t.Fields[i]
		if d.Optional {
			if !s.preds[i](rec) {
				continue
			}
			p = p.With(t.bit[i])
		}
		if d.Kind == KindRecord {
			p = p.Insert(t.sub[i], d.Nested.PresenceBits, s.access[i].presence(rec))
		}
	}

	return p
}

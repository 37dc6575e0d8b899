package packet

// Record types shared by the package tests.

type bitsA struct {
	A uint64
}

var bitsASchema = Define[bitsA]().LSBFirst().Fields(
	Uint("A", func(r *bitsA) *uint64 { return &r.A }, AtBits(4), Bits(16)),
).MustBuild()

type flags16 struct {
	B0, B1, B2, B3, B4, B5, B6, B7, B8, B9, B10, B11 bool

	B12 uint8
	B13 uint16
	B14 uint32
	B15 uint64
}

var flags16Schema = Define[flags16]().LSBFirst().Fields(
	Bool("B0", func(r *flags16) *bool { return &r.B0 }, AtBits(0)),
	Bool("B1", func(r *flags16) *bool { return &r.B1 }, AtBits(1)),
	Bool("B2", func(r *flags16) *bool { return &r.B2 }, AtBits(2)),
	Bool("B3", func(r *flags16) *bool { return &r.B3 }, AtBits(3)),
	Bool("B4", func(r *flags16) *bool { return &r.B4 }, AtBits(4)),
	Bool("B5", func(r *flags16) *bool { return &r.B5 }, AtBits(5)),
	Bool("B6", func(r *flags16) *bool { return &r.B6 }, AtBits(6)),
	Bool("B7", func(r *flags16) *bool { return &r.B7 }, AtBits(7)),
	Bool("B8", func(r *flags16) *bool { return &r.B8 }, AtBits(8)),
	Bool("B9", func(r *flags16) *bool { return &r.B9 }, AtBits(9)),
	Bool("B10", func(r *flags16) *bool { return &r.B10 }, AtBits(10)),
	Bool("B11", func(r *flags16) *bool { return &r.B11 }, AtBits(11)),
	Uint("B12", func(r *flags16) *uint8 { return &r.B12 }, AtBits(12), Bits(1)),
	Uint("B13", func(r *flags16) *uint16 { return &r.B13 }, AtBits(13), Bits(1)),
	Uint("B14", func(r *flags16) *uint32 { return &r.B14 }, AtBits(14), Bits(1)),
	Uint("B15", func(r *flags16) *uint64 { return &r.B15 }, AtBits(15), Bits(1)),
).MustBuild()

type quad struct {
	C0, C1, C2, C3 uint8
}

var quadSchema = Define[quad]().LSBFirst().Fields(
	Uint("C0", func(r *quad) *uint8 { return &r.C0 }, At(0, 0)),
	Uint("C1", func(r *quad) *uint8 { return &r.C1 }, At(1, 0)),
	Uint("C2", func(r *quad) *uint8 { return &r.C2 }, At(2, 0)),
	Uint("C3", func(r *quad) *uint8 { return &r.C3 }, At(3, 0)),
).MustBuild()

type overlay struct {
	F0 uint64
	F1 uint32
	F2 uint16
	F3 uint8
	F4 int64
	F5 int32
	F6 int16
}

func overlayFields() []Field[overlay] {
	return []Field[overlay]{
		Uint("F0", func(r *overlay) *uint64 { return &r.F0 }, AtBits(0), Bits(64)),
		Uint("F1", func(r *overlay) *uint32 { return &r.F1 }, AtBits(0), Bits(32)),
		Uint("F2", func(r *overlay) *uint16 { return &r.F2 }, AtBits(0), Bits(16)),
		Uint("F3", func(r *overlay) *uint8 { return &r.F3 }, AtBits(0), Bits(8)),
		Int("F4", func(r *overlay) *int64 { return &r.F4 }, AtBits(0), Bits(64)),
		Int("F5", func(r *overlay) *int32 { return &r.F5 }, AtBits(0), Bits(32)),
		Int("F6", func(r *overlay) *int16 { return &r.F6 }, AtBits(0), Bits(16)),
	}
}

var (
	overlayLSB = Define[overlay]().Name("overlayLSB").LSBFirst().Cache(testCache()).Fields(overlayFields()...).MustBuild()
	overlayMSB = Define[overlay]().Name("overlayMSB").Cache(testCache()).Fields(overlayFields()...).MustBuild()
)

type defaultOffsets struct {
	F0 uint8
	F1 int16
	F2 int32
	F3 int64
}

var defaultOffsetsSchema = Define[defaultOffsets]().LSBFirst().Fields(
	Uint("F0", func(r *defaultOffsets) *uint8 { return &r.F0 }),
	Int("F1", func(r *defaultOffsets) *int16 { return &r.F1 }),
	Int("F2", func(r *defaultOffsets) *int32 { return &r.F2 }),
	Int("F3", func(r *defaultOffsets) *int64 { return &r.F3 }),
).MustBuild()

type byteArray struct {
	Data []byte
}

var byteArraySchema = Define[byteArray]().LSBFirst().Fields(
	Slice("Data", func(r *byteArray) *[]byte { return &r.Data }, Elements(4)),
).MustBuild()

type lastBit struct {
	Bit bool
}

var lastBitSchema = Define[lastBit]().LSBFirst().Fields(
	Bool("Bit", func(r *lastBit) *bool { return &r.Bit }, AtBits(63)),
).MustBuild()

type empty struct{}

var emptySchema = Define[empty]().LSBFirst().MustBuild()

type byteEnum uint8

type intEnum int32

const (
	enumOne byteEnum = iota + 1
	enumTwo
)

const (
	intOne intEnum = iota + 1
	_
	intThree
)

type enums struct {
	E0 byteEnum
	E1 byteEnum
	E2 intEnum
	E3 intEnum
}

var enumsSchema = Define[enums]().LSBFirst().Fields(
	Uint("E0", func(r *enums) *byteEnum { return &r.E0 }),
	Uint("E1", func(r *enums) *byteEnum { return &r.E1 }, Bits(8)),
	Int("E2", func(r *enums) *intEnum { return &r.E2 }),
	Int("E3", func(r *enums) *intEnum { return &r.E3 }, Bits(8)),
).MustBuild()

type twoBytes struct {
	Field []byte
}

var twoBytesSchema = Define[twoBytes]().Fields(
	Slice("Field", func(r *twoBytes) *[]byte { return &r.Field }, Bytes(2)),
).MustBuild()

type innerB struct {
	FieldB uint16
}

type innerA struct {
	B      innerB
	FieldA uint32
}

type outer struct {
	Field uint64
	A1    innerA
	A2    innerA
}

var (
	innerBSchema = Define[innerB]().Fields(
		Uint("FieldB", func(r *innerB) *uint16 { return &r.FieldB }),
	).MustBuild()

	innerASchema = Define[innerA]().Fields(
		Nested("B", func(r *innerA) *innerB { return &r.B }, innerBSchema),
		Uint("FieldA", func(r *innerA) *uint32 { return &r.FieldA }),
	).MustBuild()

	outerSchema = Define[outer]().Fields(
		Uint("Field", func(r *outer) *uint64 { return &r.Field }),
		Nested("A1", func(r *outer) *innerA { return &r.A1 }, innerASchema),
		Nested("A2", func(r *outer) *innerA { return &r.A2 }, innerASchema),
	).MustBuild()
)

var outerBytes = []byte{
	0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
	0xc0, 0xfe, 0xde, 0xad, 0xc0, 0xde, 0xab, 0xcd,
	0xba, 0x5e, 0xba, 0x11,
}

var outerValue = outer{
	Field: 0x1122334455667788,
	A1:    innerA{B: innerB{FieldB: 0xc0fe}, FieldA: 0xdeadc0de},
	A2:    innerA{B: innerB{FieldB: 0xabcd}, FieldA: 0xba5eba11},
}

// optionalPair has a mandatory byte followed by a byte present when the first is 1.
type optionalPair struct {
	A uint8
	B uint8
}

var optionalPairSchema = Define[optionalPair]().Fields(
	Uint("A", func(r *optionalPair) *uint8 { return &r.A }),
	Uint("B", func(r *optionalPair) *uint8 { return &r.B },
		PresentIf(func(r *optionalPair) bool { return r.A == 1 }, "A")),
).MustBuild()

// sfdpTable is a parameter table whose length in double words is known from
// a separate header, seeded before decoding.
type sfdpTable struct {
	DWords int

	DW1 uint32
	DW2 uint32
	DW3 uint32
	DW4 uint32
}

func hasDWord(n int) func(*sfdpTable) bool {
	return func(t *sfdpTable) bool { return t.DWords >= n }
}

var sfdpTableSchema = Define[sfdpTable]().LSBFirst().Fields(
	Uint("DW1", func(r *sfdpTable) *uint32 { return &r.DW1 }, PresentIf(hasDWord(1))),
	Uint("DW2", func(r *sfdpTable) *uint32 { return &r.DW2 }, PresentIf(hasDWord(2))),
	Uint("DW3", func(r *sfdpTable) *uint32 { return &r.DW3 }, PresentIf(hasDWord(3))),
	Uint("DW4", func(r *sfdpTable) *uint32 { return &r.DW4 }, PresentIf(hasDWord(4))),
).MustBuild()

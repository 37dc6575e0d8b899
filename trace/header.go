package trace

import (
	"github.com/renode/packet"
	"github.com/renode/packet/format"
)

const (
	// MagicNumber opens every trace ("PT" read least significant byte first).
	MagicNumber uint16 = 0x5054
	// Version is the trace layout version written by this package.
	Version uint8 = 1
)

const (
	// FlagBigEndian marks entry headers written most significant byte first.
	FlagBigEndian uint8 = 1 << 0
	// FlagChecksum marks a header that carries the raw payload checksum.
	FlagChecksum uint8 = 1 << 1
)

const (
	headerMinSize   = 16
	headerMaxSize   = 24
	entryHeaderSize = 16
)

// Header is the fixed prefix of a trace.
//
// The checksum is present only when FlagChecksum is set, so the header is 16
// or 24 bytes long.
type Header struct {
	Magic            uint16
	Version          uint8
	Compression      format.CompressionType
	Flags            uint8
	EntryCount       uint32
	RawLength        uint32
	CompressedLength uint32
	Checksum         *uint64
}

// HasChecksum reports whether the header carries a payload checksum.
func (h Header) HasChecksum() bool {
	return h.Flags&FlagChecksum != 0
}

// BigEndian reports whether entry headers are most significant byte first.
func (h Header) BigEndian() bool {
	return h.Flags&FlagBigEndian != 0
}

var headerSchema = packet.Define[Header]().
	Name("trace.Header").
	LSBFirst().
	Fields(
		packet.Uint("magic", func(h *Header) *uint16 { return &h.Magic }),
		packet.Uint("version", func(h *Header) *uint8 { return &h.Version }, packet.Bits(4)),
		packet.Uint("compression", func(h *Header) *format.CompressionType { return &h.Compression }, packet.At(2, 4), packet.Bits(4)),
		packet.Uint("flags", func(h *Header) *uint8 { return &h.Flags }),
		packet.Uint("entry_count", func(h *Header) *uint32 { return &h.EntryCount }),
		packet.Uint("raw_length", func(h *Header) *uint32 { return &h.RawLength }),
		packet.Uint("compressed_length", func(h *Header) *uint32 { return &h.CompressedLength }),
		packet.NullUint("checksum", func(h *Header) **uint64 { return &h.Checksum },
			packet.PresentIf((*Header).HasChecksum, "flags")),
	).
	MustBuild()

// Direction tells which side of a link produced a packet.
type Direction uint8

const (
	// DirectionIn is a packet received by the device model.
	DirectionIn Direction = 0
	// DirectionOut is a packet sent by the device model.
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}

	return "in"
}

// MaxChannel is the highest channel number an entry can carry.
const MaxChannel = 1<<7 - 1

// EntryHeader precedes every packet in a trace payload.
type EntryHeader struct {
	// Fingerprint identifies the schema the packet was encoded with, or zero
	// for raw captures.
	Fingerprint uint64
	Length      uint32
	Direction   Direction
	Channel     uint8
}

func defineEntryHeader(name string, lsbFirst bool) *packet.Schema[EntryHeader] {
	b := packet.Define[EntryHeader]().Name(name).Width(entryHeaderSize * 8)
	if lsbFirst {
		b = b.LSBFirst()
	}

	return b.Fields(
		packet.Uint("fingerprint", func(e *EntryHeader) *uint64 { return &e.Fingerprint }),
		packet.Uint("length", func(e *EntryHeader) *uint32 { return &e.Length }),
		packet.Uint("direction", func(e *EntryHeader) *Direction { return &e.Direction }, packet.Bits(1)),
		packet.Uint("channel", func(e *EntryHeader) *uint8 { return &e.Channel }, packet.At(12, 1), packet.Bits(7)),
	).MustBuild()
}

var (
	entryHeaderLE = defineEntryHeader("trace.EntryHeader", true)
	entryHeaderBE = defineEntryHeader("trace.EntryHeaderBE", false)
)

func entryHeaderSchema(flags uint8) *packet.Schema[EntryHeader] {
	if flags&FlagBigEndian != 0 {
		return entryHeaderBE
	}

	return entryHeaderLE
}

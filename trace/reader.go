package trace

import (
	"fmt"
	"iter"

	"github.com/cespare/xxhash/v2"

	"github.com/renode/packet"
	"github.com/renode/packet/compress"
	"github.com/renode/packet/errs"
)

// Entry is one packet of a trace.
type Entry struct {
	EntryHeader
	// Payload holds the encoded packet. It aliases the reader's buffer.
	Payload []byte
}

// Reader gives access to the entries of a trace.
//
// A Reader is immutable after NewReader and safe for concurrent use.
type Reader struct {
	header  Header
	entries []Entry
}

// NewReader parses a trace produced by Writer.Finish.
//
// The header, checksum and every entry boundary are validated up front, so
// iteration cannot fail.
func NewReader(data []byte) (*Reader, error) {
	h, n, err := headerSchema.Decode(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidTraceHeader, err)
	}
	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidTraceHeader, h.Version)
	}
	if int(h.CompressedLength) != len(data)-n {
		return nil, fmt.Errorf("%w: compressed length %d, have %d bytes",
			errs.ErrInvalidTraceHeader, h.CompressedLength, len(data)-n)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidTraceHeader, err)
	}

	raw, err := codec.Decompress(data[n:], int(h.RawLength))
	if err != nil {
		return nil, err
	}

	if h.HasChecksum() {
		if sum := xxhash.Sum64(raw); sum != *h.Checksum {
			return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, *h.Checksum)
		}
	}

	entries, err := splitEntries(raw, h)
	if err != nil {
		return nil, err
	}

	return &Reader{header: h, entries: entries}, nil
}

func splitEntries(raw []byte, h Header) ([]Entry, error) {
	schema := entryHeaderSchema(h.Flags)
	// EntryCount is untrusted; every entry takes at least a header.
	entries := make([]Entry, 0, min(int(h.EntryCount), len(raw)/entryHeaderSize))

	for off := 0; off < len(raw); {
		eh, n, err := schema.Decode(raw, off)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d at offset %d: %w", errs.ErrTruncatedEntry, len(entries), off, err)
		}
		off += n

		end := off + int(eh.Length)
		if end > len(raw) {
			return nil, fmt.Errorf("%w: entry %d needs %d payload bytes, have %d",
				errs.ErrTruncatedEntry, len(entries), eh.Length, len(raw)-off)
		}
		entries = append(entries, Entry{EntryHeader: eh, Payload: raw[off:end:end]})
		off = end
	}

	if len(entries) != int(h.EntryCount) {
		return nil, fmt.Errorf("%w: header counts %d entries, payload holds %d",
			errs.ErrInvalidTraceHeader, h.EntryCount, len(entries))
	}

	return entries, nil
}

// Header returns the trace header.
func (r *Reader) Header() Header {
	return r.header
}

// Len returns the number of entries.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Entry returns the i-th entry.
func (r *Reader) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(r.entries) {
		return Entry{}, false
	}

	return r.entries[i], true
}

// All returns an iterator over the entries and their indexes.
func (r *Reader) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range r.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Resolve returns the registered schema an entry was encoded with.
func (r *Reader) Resolve(e Entry) (packet.Subtype, bool) {
	if e.Fingerprint == 0 {
		return nil, false
	}

	return packet.Lookup(e.Fingerprint)
}

// DecodeEntry decodes the payload of e with schema. The entry must have been
// written with the same schema.
func DecodeEntry[T any](e Entry, schema *packet.Schema[T]) (T, error) {
	var rec T
	if e.Fingerprint != schema.Fingerprint() {
		return rec, fmt.Errorf("%w: entry %016x, schema %s is %016x",
			errs.ErrFingerprintMismatch, e.Fingerprint, schema.Name(), schema.Fingerprint())
	}

	if _, err := schema.DecodeInto(e.Payload, 0, &rec); err != nil {
		return rec, err
	}

	return rec, nil
}

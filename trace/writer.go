package trace

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/renode/packet"
	"github.com/renode/packet/compress"
	"github.com/renode/packet/errs"
	"github.com/renode/packet/format"
	"github.com/renode/packet/internal/options"
	"github.com/renode/packet/internal/pool"
)

// Writer collects encoded packets and produces a trace.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	cfg      writerConfig
	codec    compress.Codec
	entries  *packet.Schema[EntryHeader]
	buf      *pool.ByteBuffer
	count    uint32
	finished bool
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		cfg: writerConfig{
			compression: format.CompressionZstd,
			checksum:    true,
		},
	}
	if err := options.Apply(&w.cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(w.cfg.compression)
	if err != nil {
		return nil, err
	}
	w.codec = codec

	var flags uint8
	if w.cfg.bigEndian {
		flags |= FlagBigEndian
	}
	w.entries = entryHeaderSchema(flags)
	w.buf = pool.GetTraceBuffer()

	return w, nil
}

// Len returns the number of entries added so far.
func (w *Writer) Len() int {
	return int(w.count)
}

// Add encodes rec with schema and appends it as one entry.
func Add[T any](w *Writer, schema *packet.Schema[T], rec *T, dir Direction, channel uint8) error {
	if w.finished {
		return errs.ErrWriterFinished
	}
	if channel > MaxChannel {
		return fmt.Errorf("%w: channel %d exceeds %d", errs.ErrUnsupportedValue, channel, MaxChannel)
	}

	if rec == nil {
		rec = new(T)
	}

	length := schema.LengthOf(rec)
	eh := EntryHeader{
		Fingerprint: schema.Fingerprint(),
		Length:      uint32(length), //nolint: gosec
		Direction:   dir,
		Channel:     channel,
	}

	start := w.buf.Len()
	w.buf.Grow(entryHeaderSize + length)

	out, err := w.entries.AppendEncode(w.buf.B, &eh)
	if err != nil {
		return err
	}
	out, err = schema.AppendEncode(out, rec)
	if err != nil {
		w.buf.B = out[:start]
		return fmt.Errorf("encode %s entry: %w", schema.Name(), err)
	}

	w.buf.B = out
	w.count++

	return nil
}

// AddRaw appends an already encoded packet. fingerprint may be zero when the
// packet has no schema.
func (w *Writer) AddRaw(fingerprint uint64, payload []byte, dir Direction, channel uint8) error {
	if w.finished {
		return errs.ErrWriterFinished
	}
	if channel > MaxChannel {
		return fmt.Errorf("%w: channel %d exceeds %d", errs.ErrUnsupportedValue, channel, MaxChannel)
	}

	eh := EntryHeader{
		Fingerprint: fingerprint,
		Length:      uint32(len(payload)), //nolint: gosec
		Direction:   dir,
		Channel:     channel,
	}

	w.buf.Grow(entryHeaderSize + len(payload))
	out, err := w.entries.AppendEncode(w.buf.B, &eh)
	if err != nil {
		return err
	}
	w.buf.B = out
	_, _ = w.buf.Write(payload)
	w.count++

	return nil
}

// Finish compresses the collected entries and returns the complete trace.
// The Writer cannot be used afterwards.
func (w *Writer) Finish() ([]byte, error) {
	if w.finished {
		return nil, errs.ErrWriterFinished
	}
	w.finished = true
	defer func() {
		pool.PutTraceBuffer(w.buf)
		w.buf = nil
	}()

	raw := w.buf.Bytes()
	compressed, err := w.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress trace payload: %w", err)
	}

	h := Header{
		Magic:            MagicNumber,
		Version:          Version,
		Compression:      w.cfg.compression,
		EntryCount:       w.count,
		RawLength:        uint32(len(raw)),        //nolint: gosec
		CompressedLength: uint32(len(compressed)), //nolint: gosec
	}
	if w.cfg.bigEndian {
		h.Flags |= FlagBigEndian
	}
	if w.cfg.checksum {
		h.Flags |= FlagChecksum
		sum := xxhash.Sum64(raw)
		h.Checksum = &sum
	}

	out := make([]byte, 0, headerMaxSize+len(compressed))
	out, err = headerSchema.AppendEncode(out, &h)
	if err != nil {
		return nil, err
	}
	out = append(out, compressed...)

	packet.Logger().Debug("trace finished",
		zap.Uint32("entries", h.EntryCount),
		zap.Stringer("compression", h.Compression),
		zap.Int("raw_bytes", len(raw)),
		zap.Int("compressed_bytes", len(compressed)))

	return out, nil
}

package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/format"
)

func samplePayload() []byte {
	setup := []byte{0x80, 0x06, 0x00, 0x01, 0x00, 0x00, 0x12, 0x00}
	descriptor := []byte{0x12, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x40, 0x6b, 0x1d, 0x04, 0x01, 0x00, 0x01, 0x01, 0x02, 0x03, 0x01}

	return bytes.Repeat(append(setup, descriptor...), 64)
}

func allTypes() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payload := samplePayload()

	for _, ct := range allTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(payload)
			require.NoError(t, err)
			if ct != format.CompressionNone {
				require.Less(t, len(packed), len(payload))
			}

			raw, err := codec.Decompress(packed, len(payload))
			require.NoError(t, err)
			require.Equal(t, payload, raw)
		})
	}
}

func TestCodecEmpty(t *testing.T) {
	for _, ct := range allTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, packed)

			raw, err := codec.Decompress(packed, 0)
			require.NoError(t, err)
			require.Empty(t, raw)
		})
	}
}

func TestCodecSizeMismatch(t *testing.T) {
	payload := samplePayload()

	for _, ct := range allTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(payload)
			require.NoError(t, err)

			_, err = codec.Decompress(packed, len(payload)+1)
			require.Error(t, err)
			if ct != format.CompressionLZ4 {
				require.ErrorIs(t, err, errs.ErrDecompressedSize)
			}
		})
	}
}

func TestCodecSizeHintLimits(t *testing.T) {
	payload := samplePayload()

	for _, ct := range allTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			packed, err := codec.Compress(payload)
			require.NoError(t, err)

			_, err = codec.Decompress(packed, MaxDecompressedSize+1)
			require.ErrorIs(t, err, errs.ErrDecompressedSize)

			_, err = codec.Decompress(packed, -1)
			require.ErrorIs(t, err, errs.ErrDecompressedSize)
		})
	}
}

func TestLZ4RejectsImpossibleExpansion(t *testing.T) {
	_, err := NewLZ4Compressor().Decompress([]byte{0x10, 0x00}, 2*lz4MaxRatio+1)
	require.ErrorIs(t, err, errs.ErrDecompressedSize)
}

func TestZstdFrameSizeMismatch(t *testing.T) {
	codec := NewZstdCompressor()
	packed, err := codec.Compress(samplePayload())
	require.NoError(t, err)

	_, err = codec.Decompress(packed, 1<<20)
	require.ErrorIs(t, err, errs.ErrDecompressedSize)
}

func TestCodecCorruptInput(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage, 64)
			require.Error(t, err)
		})
	}
}

func TestGetCodecUnsupported(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x0f))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestNoOpSharesInput(t *testing.T) {
	payload := []byte{1, 2, 3}
	packed, err := NewNoOpCompressor().Compress(payload)
	require.NoError(t, err)
	require.Same(t, &payload[0], &packed[0])
}

package packet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renode/packet/errs"
)

type descriptor interface {
	DescriptorType() uint8
}

type deviceDescriptor struct {
	Length    uint8
	Type      uint8
	USBBCD    uint16
	VendorID  uint16
	ProductID uint16
}

func (d deviceDescriptor) DescriptorType() uint8 { return d.Type }

type endpointDescriptor struct {
	Length  uint8
	Type    uint8
	Address uint8
	In      bool
}

func (d *endpointDescriptor) DescriptorType() uint8 { return d.Type }

var (
	deviceDescriptorSchema = Define[deviceDescriptor]().LSBFirst().Fields(
		Uint("Length", func(r *deviceDescriptor) *uint8 { return &r.Length }),
		Uint("Type", func(r *deviceDescriptor) *uint8 { return &r.Type }),
		Uint("USBBCD", func(r *deviceDescriptor) *uint16 { return &r.USBBCD }),
		Uint("VendorID", func(r *deviceDescriptor) *uint16 { return &r.VendorID }),
		Uint("ProductID", func(r *deviceDescriptor) *uint16 { return &r.ProductID }),
	).MustBuild()

	endpointDescriptorSchema = Define[endpointDescriptor]().LSBFirst().Fields(
		Uint("Length", func(r *endpointDescriptor) *uint8 { return &r.Length }),
		Uint("Type", func(r *endpointDescriptor) *uint8 { return &r.Type }),
		Uint("Address", func(r *endpointDescriptor) *uint8 { return &r.Address }, Bits(4)),
		Bool("In", func(r *endpointDescriptor) *bool { return &r.In }, At(2, 7)),
	).MustBuild()
)

func selectDescriptor(data []byte) Subtype {
	if len(data) < 2 {
		return nil
	}
	switch data[1] {
	case 1:
		return deviceDescriptorSchema
	case 5:
		return endpointDescriptorSchema
	default:
		return nil
	}
}

var (
	deviceBytes   = []byte{8, 1, 0x00, 0x02, 0x34, 0x12, 0x78, 0x56}
	endpointBytes = []byte{3, 5, 0x81}
)

func TestDecodeSubtypeInterface(t *testing.T) {
	d, n, err := DecodeSubtype[descriptor](deviceBytes, 0, selectDescriptor)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, uint8(1), d.DescriptorType())

	dev, ok := d.(*deviceDescriptor)
	require.True(t, ok, "pointer results are preferred")
	require.Equal(t, uint16(0x1234), dev.VendorID)
	require.Equal(t, uint16(0x5678), dev.ProductID)

	framed := append([]byte{0xff}, endpointBytes...)
	d, n, err = DecodeSubtype[descriptor](framed, 1, selectDescriptor)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	ep, ok := d.(*endpointDescriptor)
	require.True(t, ok)
	require.Equal(t, uint8(1), ep.Address)
	require.True(t, ep.In)
}

func TestDecodeSubtypeConcrete(t *testing.T) {
	dev, _, err := DecodeSubtype[deviceDescriptor](deviceBytes, 0, selectDescriptor)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), dev.USBBCD)

	ep, _, err := DecodeSubtype[*endpointDescriptor](endpointBytes, 0, selectDescriptor)
	require.NoError(t, err)
	require.Equal(t, uint8(5), ep.Type)

	v, _, err := DecodeSubtype[any](endpointBytes, 0, selectDescriptor)
	require.NoError(t, err)
	require.IsType(t, &endpointDescriptor{}, v)
}

func TestDecodeSubtypeErrors(t *testing.T) {
	_, _, err := DecodeSubtype[descriptor]([]byte{2, 9}, 0, selectDescriptor)
	require.ErrorIs(t, err, errs.ErrNoSubtype)

	_, _, err = DecodeSubtype[descriptor](deviceBytes, 0, func([]byte) Subtype {
		var missing *Schema[deviceDescriptor]
		return missing
	})
	require.ErrorIs(t, err, errs.ErrNoSubtype)

	_, _, err = DecodeSubtype[endpointDescriptor](deviceBytes, 0, selectDescriptor)
	require.ErrorIs(t, err, errs.ErrIncompatibleSubtype)

	_, _, err = DecodeSubtype[descriptor](deviceBytes[:4], 0, selectDescriptor)
	require.ErrorIs(t, err, errs.ErrInsufficientData)

	_, _, err = DecodeSubtype[descriptor](deviceBytes, 9, selectDescriptor)
	require.ErrorIs(t, err, errs.ErrInvalidOffset)
}

func TestEncodeAny(t *testing.T) {
	dev := deviceDescriptor{Length: 8, Type: 1, USBBCD: 0x0200, VendorID: 0x1234, ProductID: 0x5678}

	out, err := deviceDescriptorSchema.EncodeAny(dev)
	require.NoError(t, err)
	require.Equal(t, deviceBytes, out)

	out, err = deviceDescriptorSchema.EncodeAny(&dev)
	require.NoError(t, err)
	require.Equal(t, deviceBytes, out)

	_, err = deviceDescriptorSchema.EncodeAny(endpointDescriptor{})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	v, n, err := endpointDescriptorSchema.DecodeAny(endpointBytes, 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, &endpointDescriptor{Length: 3, Type: 5, Address: 1, In: true}, v)
}

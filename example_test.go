package packet_test

import (
	"fmt"

	"github.com/renode/packet"
)

type Setup struct {
	Recipient uint8
	Type      uint8
	Direction bool
	Request   uint8
	Value     uint16
}

var setupSchema = packet.Define[Setup]().LSBFirst().Fields(
	packet.Uint("Recipient", func(s *Setup) *uint8 { return &s.Recipient }, packet.Bits(5)),
	packet.Uint("Type", func(s *Setup) *uint8 { return &s.Type }, packet.AtBits(5), packet.Bits(2)),
	packet.Bool("Direction", func(s *Setup) *bool { return &s.Direction }, packet.AtBits(7)),
	packet.Uint("Request", func(s *Setup) *uint8 { return &s.Request }, packet.At(1, 0)),
	packet.Uint("Value", func(s *Setup) *uint16 { return &s.Value }),
).MustBuild()

func ExampleSchema_Encode() {
	data, err := setupSchema.Encode(&Setup{Direction: true, Request: 0x06, Value: 0x0100})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", data)

	setup, n, err := setupSchema.Decode(data, 0)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d bytes: direction=%t request=%d value=0x%04x\n", n, setup.Direction, setup.Request, setup.Value)

	// Output:
	// 80 06 00 01
	// 4 bytes: direction=true request=6 value=0x0100
}

type Frame struct {
	Flags uint8
	Extra uint16
}

var frameSchema = packet.Define[Frame]().Fields(
	packet.Uint("flags", func(f *Frame) *uint8 { return &f.Flags }),
	packet.Uint("extra", func(f *Frame) *uint16 { return &f.Extra },
		packet.PresentIf(func(f *Frame) bool { return f.Flags&1 != 0 }, "flags")),
).MustBuild()

func ExamplePresentIf() {
	long := Frame{Flags: 1, Extra: 0xabcd}
	short := Frame{Flags: 0}

	data, _ := frameSchema.Encode(&long)
	fmt.Printf("% x\n", data)
	fmt.Println(frameSchema.LengthOf(&long), frameSchema.LengthOf(&short), frameSchema.Length())

	_, err := frameSchema.OffsetOf(&short, "extra")
	fmt.Println(err)

	f, n, _ := frameSchema.Decode([]byte{0x00, 0xff}, 0)
	fmt.Printf("flags=%d extra=%d consumed=%d\n", f.Flags, f.Extra, n)

	// Output:
	// 01 ab cd
	// 3 1 3
	// field not present: packet_test.Frame.extra
	// flags=0 extra=0 consumed=1
}

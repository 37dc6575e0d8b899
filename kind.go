package packet

// Kind is the element kind of a record field.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint         // unsigned integer, 1/2/4/8 bytes
	KindInt          // signed integer, 1/2/4/8 bytes
	KindBool         // single bit
	KindArray        // fixed-size array of integers
	KindRecord       // nested record
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "Uint"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindArray:
		return "Array"
	case KindRecord:
		return "Record"
	default:
		return "Invalid"
	}
}

// isPrimitive reports whether fields of kind k are a single bit-spliced value.
func (k Kind) isPrimitive() bool {
	return k == KindUint || k == KindInt || k == KindBool
}

package packet

// Encode encodes rec with the schema registered for T.
func Encode[T any](rec *T) ([]byte, error) {
	s, err := registered[T]()
	if err != nil {
		return nil, err
	}

	return s.Encode(rec)
}

// Decode decodes a T at data[offset:] with the schema registered for T.
func Decode[T any](data []byte, offset int) (T, int, error) {
	s, err := registered[T]()
	if err != nil {
		var zero T
		return zero, 0, err
	}

	return s.Decode(data, offset)
}

// DecodeInto decodes into rec with the schema registered for T.
func DecodeInto[T any](data []byte, offset int, rec *T) (int, error) {
	s, err := registered[T]()
	if err != nil {
		return 0, err
	}

	return s.DecodeInto(data, offset, rec)
}

// Length returns the upper bound encoded length of T in bytes.
func Length[T any]() (int, error) {
	s, err := registered[T]()
	if err != nil {
		return 0, err
	}

	return s.Length(), nil
}

// LengthOf returns the exact encoded length of rec in bytes.
func LengthOf[T any](rec *T) (int, error) {
	s, err := registered[T]()
	if err != nil {
		return 0, err
	}

	return s.LengthOf(rec), nil
}

// Offset returns the upper bound byte offset of a field of T.
func Offset[T any](path string) (int, error) {
	s, err := registered[T]()
	if err != nil {
		return 0, err
	}

	return s.Offset(path)
}

// OffsetOf returns the byte offset of a field in the layout of rec.
func OffsetOf[T any](rec *T, path string) (int, error) {
	s, err := registered[T]()
	if err != nil {
		return 0, err
	}

	return s.OffsetOf(rec, path)
}

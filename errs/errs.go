// Package errs defines the error values returned by the packet codec and its
// supporting packages.
//
// Errors fall into three groups:
//
//   - Schema errors are returned by Builder.Build (or raised by MustBuild). They
//     describe a broken record declaration and are never retried.
//   - Encode errors describe a record value that does not fit its schema.
//   - Decode errors describe input that cannot (yet) be decoded. The most common
//     one, ErrInsufficientData, is expected at runtime: callers wait for more
//     bytes and try again.
//
// All structured errors in this package support errors.Is against the
// sentinel values below.
package errs

import "errors"

// Schema errors.
var (
	ErrUnsupportedKind       = errors.New("unsupported field kind")
	ErrArrayWidthRequired    = errors.New("array field requires a declared width or element count")
	ErrWidthMismatch         = errors.New("declared width disagrees with element count")
	ErrWidthExceedsNatural   = errors.New("declared width exceeds natural width")
	ErrWidthAssertion        = errors.New("record width assertion is smaller than its layout")
	ErrTooManyOptionalFields = errors.New("too many optional fields for presence bitmap")
	ErrArrayBitOffset        = errors.New("array fields cannot have a bit offset")
	ErrInvalidOption         = errors.New("invalid option")
	ErrDuplicateField        = errors.New("duplicate field name")
	ErrPredicateDependency   = errors.New("presence predicate depends on a later field")
)

// Encode errors.
var (
	ErrArrayLength      = errors.New("array length disagrees with declared width")
	ErrUnsupportedValue = errors.New("unsupported field value")
)

// Decode errors.
var (
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInvalidOffset       = errors.New("invalid data offset")
	ErrNoSubtype           = errors.New("subtype selector returned no schema")
	ErrIncompatibleSubtype = errors.New("selected subtype is not compatible with the requested type")
)

// Layout lookup errors.
var (
	ErrFieldNotFound   = errors.New("field not found")
	ErrFieldNotPresent = errors.New("field not present")
	ErrSchemaNotFound  = errors.New("no schema registered for type")
)

// Trace errors.
var (
	ErrInvalidTraceHeader   = errors.New("invalid trace header")
	ErrInvalidMagicNumber   = errors.New("invalid magic number")
	ErrChecksumMismatch     = errors.New("trace payload checksum mismatch")
	ErrFingerprintMismatch  = errors.New("entry fingerprint does not match schema")
	ErrTruncatedEntry       = errors.New("truncated trace entry")
	ErrWriterFinished       = errors.New("trace writer already finished")
	ErrFingerprintCollision = errors.New("schema fingerprint collision")
)

// Compression errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrDecompressedSize       = errors.New("decompressed size mismatch")
)

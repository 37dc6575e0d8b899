package packet

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/renode/packet/errs"
	"github.com/renode/packet/internal/collision"
)

// registry maps record types and fingerprints to the schemas built for them.
var registry = struct {
	mu            sync.RWMutex
	byType        map[reflect.Type]Subtype
	byFingerprint map[uint64]Subtype
	names         *collision.Tracker
}{
	byType:        make(map[reflect.Type]Subtype),
	byFingerprint: make(map[uint64]Subtype),
	names:         collision.NewTracker(),
}

// register records s as the schema of its type. A later schema for the same
// type replaces the earlier one.
func register(s Subtype) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.byType[s.Type()] = s

	if err := registry.names.Track(s.Name(), s.Fingerprint()); err != nil {
		Logger().Warn("schema fingerprint collision",
			zap.String("record", s.Name()),
			zap.Uint64("fingerprint", s.Fingerprint()),
			zap.Strings("names", registry.names.Names(s.Fingerprint())))

		return
	}
	registry.byFingerprint[s.Fingerprint()] = s

	Logger().Debug("schema registered",
		zap.String("record", s.Name()),
		zap.Stringer("type", s.Type()),
		zap.Uint64("fingerprint", s.Fingerprint()),
		zap.Int("schemas", registry.names.Count()))
}

// SchemaFor returns the schema registered for T.
func SchemaFor[T any]() (*Schema[T], bool) {
	st, ok := SchemaForType(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	s, ok := st.(*Schema[T])

	return s, ok
}

// SchemaForType returns the schema registered for a record type.
func SchemaForType(t reflect.Type) (Subtype, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	s, ok := registry.byType[t]

	return s, ok
}

// Lookup returns the schema with the given fingerprint. It reports false when
// the fingerprint is unknown or shared by schemas of different names.
func Lookup(fingerprint uint64) (Subtype, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if _, ok := registry.names.Lookup(fingerprint); !ok {
		return nil, false
	}
	s, ok := registry.byFingerprint[fingerprint]

	return s, ok
}

func registered[T any]() (*Schema[T], error) {
	s, ok := SchemaFor[T]()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrSchemaNotFound, reflect.TypeFor[T]())
	}

	return s, nil
}

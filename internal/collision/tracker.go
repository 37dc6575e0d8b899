package collision

import (
	"github.com/renode/packet/errs"
)

// Tracker maps schema fingerprints to record names and detects fingerprint
// collisions between distinct records.
//
// Tracker is not safe for concurrent use; the schema registry guards it.
type Tracker struct {
	names map[uint64][]string // Fingerprint → names, in registration order
	order []string            // Every tracked name, in registration order
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64][]string),
		order: make([]string, 0),
	}
}

// Track records that the record called name has fingerprint fp.
//
// Tracking the same name and fingerprint again is a no-op. A different name
// with an already known fingerprint is a collision: both names are kept, the
// errs.ErrFingerprintCollision is returned so the caller can report it. Lookups for that fingerprint become ambiguous.
func (t *Tracker) Track(name string, fp uint64) error {
	if name == "" {
		return errs.ErrInvalidOption
	}

	existing := t.names[fp]
	for _, n := range existing {
		if n == name {
			return nil
		}
	}

	t.names[fp] = append(existing, name)
	t.order = append(t.order, name)

	if len(existing) > 0 {
		return errs.ErrFingerprintCollision
	}

	return nil
}

// Lookup returns the single name tracked for fp.
// ok is false when fp is unknown or ambiguous.
func (t *Tracker) Lookup(fp uint64) (name string, ok bool) {
	names := t.names[fp]
	if len(names) != 1 {
		return "", false
	}

	return names[0], true
}

// Names returns every name tracked for fp.
func (t *Tracker) Names(fp uint64) []string {
	return t.names[fp]
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.order)
}

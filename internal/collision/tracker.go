package collision

import (
	"fmt"

	"github.com/arloliu/dex/errs"
)

// Tracker records DEX entries by payload fingerprint and reports entries whose payload
// was already seen under another name. APKs built by some tools carry the same
// classes.dex twice; comparing fingerprints finds those without holding every payload.
type Tracker struct {
	byHash       map[uint64]string   // fingerprint → first entry name
	names        map[string]struct{} // every tracked name
	order        []string            // names in tracking order
	duplicates   map[string]string   // entry name → name of the entry it duplicates
	hasDuplicate bool
}

// NewTracker creates a new duplicate tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash:     make(map[uint64]string),
		names:      make(map[string]struct{}),
		order:      make([]string, 0),
		duplicates: make(map[string]string),
	}
}

// Track records an entry and its payload fingerprint.
//
// Returns the name of the first entry carrying the same payload, or "" if the payload is
// new. Returns an error if:
//   - The entry name is empty (errs.ErrInvalidEntryName)
//   - The same entry name is tracked twice (errs.ErrDuplicateEntry)
func (t *Tracker) Track(name string, fingerprint uint64) (string, error) {
	if name == "" {
		return "", errs.ErrInvalidEntryName
	}
	if _, exists := t.names[name]; exists {
		return "", fmt.Errorf("%w: %s", errs.ErrDuplicateEntry, name)
	}

	t.names[name] = struct{}{}
	t.order = append(t.order, name)

	if first, exists := t.byHash[fingerprint]; exists {
		t.duplicates[name] = first
		t.hasDuplicate = true

		return first, nil
	}
	t.byHash[fingerprint] = name

	return "", nil
}

// HasDuplicate returns true if any tracked payload was seen twice.
func (t *Tracker) HasDuplicate() bool {
	return t.hasDuplicate
}

// DuplicateOf returns the first entry whose payload matches name's, if name is a duplicate.
func (t *Tracker) DuplicateOf(name string) (string, bool) {
	first, ok := t.duplicates[name]
	return first, ok
}

// Names returns the tracked entry names in tracking order.
func (t *Tracker) Names() []string {
	return t.order
}

// Count returns the number of tracked entries.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked entries.
func (t *Tracker) Reset() {
	clear(t.byHash)
	clear(t.names)
	clear(t.duplicates)
	t.order = t.order[:0]
	t.hasDuplicate = false
}

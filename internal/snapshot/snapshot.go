// Package snapshot gates re-rendering on actual data change. A panel
// serializes every fetched payload and compares it byte-for-byte with
// the previous successful serialization; equal snapshots skip the
// render entirely, so repeated polls of unchanged data never touch
// the output.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Tracker stores the last-rendered serialization per key.
type Tracker struct {
	mu   sync.Mutex
	last map[string]string
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]string)}
}

// Changed serializes payload and compares it with the stored snapshot
// for key. When the serialization differs (or no snapshot exists) the
// stored value is replaced and true is returned; identical payloads
// leave the snapshot untouched and return false.
//
// json.Marshal is canonical for this purpose: struct fields keep
// declaration order and map keys are sorted.
func (t *Tracker) Changed(key string, payload interface{}) (bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("serialize snapshot %s: %w", key, err)
	}
	serialized := string(raw)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.last[key]; ok && prev == serialized {
		return false, nil
	}
	t.last[key] = serialized
	return true, nil
}

// Peek returns the stored serialization without modifying it.
func (t *Tracker) Peek(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.last[key]
	return v, ok
}

// Reset forgets the snapshot for key, forcing the next Changed call
// to report a change. Used when a panel remounts or its filter scope
// shifts.
func (t *Tracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, key)
}

// Clear drops every stored snapshot.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = make(map[string]string)
}

// Package overlay tracks unsaved per-field edits layered on top of records
// without touching the records themselves.
package overlay

import (
	"sort"
	"sync"

	"github.com/maheshrc27/contentdesk/internal/models"
)

type entry struct {
	fields   models.Fields
	revision uint64
}

// Tracker maps record id to pending field overrides. A record is dirty
// exactly when it has a non-empty entry.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*entry)}
}

// SetField merges one value into the overlay for id.
func (t *Tracker) SetField(id, field string, value any) {
	t.SetFields(id, models.Fields{field: value})
}

func (t *Tracker) SetFields(id string, fields models.Fields) {
	if len(fields) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		e = &entry{fields: models.Fields{}}
		t.entries[id] = e
	}
	for k, v := range fields {
		e.fields[k] = v
	}
	e.revision++
}

// MergedView returns primary with pending edits applied on top. primary is
// not modified.
func (t *Tracker) MergedView(primary models.Record) models.Record {
	merged := primary.Clone()
	if merged.Fields == nil {
		merged.Fields = models.Fields{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if e, ok := t.entries[primary.ID]; ok {
		for k, v := range e.fields {
			merged.Fields[k] = v
		}
	}
	return merged
}

// Pending returns a copy of the overlay for id and its revision. The
// revision changes on every edit.
func (t *Tracker) Pending(id string) (models.Fields, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return nil, 0
	}
	return e.fields.Clone(), e.revision
}

// Clear drops the whole overlay for id.
func (t *Tracker) Clear(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

// ClearIfUnchanged drops the overlay only when nothing was edited since
// revision was read. It reports whether the overlay was dropped.
func (t *Tracker) ClearIfUnchanged(id string, revision uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return true
	}
	if e.revision != revision {
		return false
	}
	delete(t.entries, id)
	return true
}

func (t *Tracker) IsDirty(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	return ok && len(e.fields) > 0
}

// DirtyIDs lists every id with pending edits, sorted.
func (t *Tracker) DirtyIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.entries))
	for id, e := range t.entries {
		if len(e.fields) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Package workspace reconciles local edit overlays with the remote record
// store for one table.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/overlay"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"golang.org/x/sync/errgroup"
)

const defaultSaveAllLimit = 4

type SaveAllResult struct {
	Saved  []string          `json:"saved"`
	Failed map[string]string `json:"failed"`
}

// Workspace holds the primary record list of one table, the overlay of
// unsaved edits on top of it, and the set of records currently saving.
type Workspace struct {
	table        string
	store        airtable.RecordStore
	overlay      *overlay.Tracker
	saveAllLimit int

	mu       sync.RWMutex
	order    []string
	records  map[string]models.Record
	drafts   map[string]struct{}
	saving   map[string]struct{}
	// writes counts local writes; written holds the count at each id's
	// last write so a slower read never undoes it.
	writes   uint64
	written  map[string]uint64
	loaded   bool
	lastUsed time.Time
}

func New(table string, store airtable.RecordStore) *Workspace {
	return &Workspace{
		table:        table,
		store:        store,
		overlay:      overlay.NewTracker(),
		saveAllLimit: defaultSaveAllLimit,
		records:      make(map[string]models.Record),
		drafts:       make(map[string]struct{}),
		saving:       make(map[string]struct{}),
		written:      make(map[string]uint64),
		lastUsed:     time.Now(),
	}
}

func (w *Workspace) Table() string {
	return w.table
}

// SetSaveAllLimit bounds how many saves SaveAll runs at once.
func (w *Workspace) SetSaveAllLimit(n int) {
	if n > 0 {
		w.saveAllLimit = n
	}
}

// Load replaces primary state with the store's records. Pending edits are
// kept, and records saved, created or removed while the list was in flight
// keep their local state.
func (w *Workspace) Load(ctx context.Context) error {
	since := w.WriteMark()

	records, err := w.store.List(ctx, w.table)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	order := make([]string, 0, len(records))
	next := make(map[string]models.Record, len(records))
	for _, r := range records {
		if w.written[r.ID] > since {
			current, ok := w.records[r.ID]
			if !ok {
				continue
			}
			r = current
		}
		order = append(order, r.ID)
		next[r.ID] = r
	}
	for _, id := range w.order {
		if _, ok := next[id]; ok || w.written[id] <= since {
			continue
		}
		order = append(order, id)
		next[id] = w.records[id]
	}

	w.order = order
	w.records = next
	w.loaded = true
	return nil
}

// WriteMark returns the current write generation. Pass it to Replace to
// adopt a record read after this point.
func (w *Workspace) WriteMark() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.writes
}

// wrote must be called with mu held for writing.
func (w *Workspace) wrote(id string) {
	w.writes++
	w.written[id] = w.writes
}

// EnsureLoaded loads the workspace on first use.
func (w *Workspace) EnsureLoaded(ctx context.Context) error {
	w.mu.RLock()
	loaded := w.loaded
	w.mu.RUnlock()
	if loaded {
		return nil
	}
	return w.Load(ctx)
}

func (w *Workspace) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loaded
}

// Records returns every record, drafts last, with pending edits applied.
func (w *Workspace) Records() []models.Record {
	w.mu.Lock()
	w.touch()
	out := make([]models.Record, 0, len(w.order)+len(w.drafts))
	for _, id := range w.order {
		out = append(out, w.overlay.MergedView(w.records[id]))
	}
	for _, id := range sortedKeys(w.drafts) {
		out = append(out, w.overlay.MergedView(models.Record{ID: id}))
	}
	w.mu.Unlock()
	return out
}

// Record returns one merged record.
func (w *Workspace) Record(id string) (models.Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if _, ok := w.drafts[id]; ok {
		return w.overlay.MergedView(models.Record{ID: id}), nil
	}
	r, ok := w.records[id]
	if !ok {
		return models.Record{}, apperror.NotFoundError(fmt.Sprintf("record %s not found in %s", id, w.table))
	}
	return w.overlay.MergedView(r), nil
}

// PrimaryRecords returns the records as last confirmed by the store,
// without drafts or pending edits.
func (w *Workspace) PrimaryRecords() []models.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	out := make([]models.Record, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.records[id].Clone())
	}
	return out
}

// Primary returns the record as last confirmed by the store.
func (w *Workspace) Primary(id string) (models.Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.records[id]
	return r.Clone(), ok
}

// SetField stages an edit. No validation happens here.
func (w *Workspace) SetField(id, field string, value any) error {
	return w.SetFields(id, models.Fields{field: value})
}

func (w *Workspace) SetFields(id string, fields models.Fields) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	_, known := w.records[id]
	_, draft := w.drafts[id]
	if !known && !draft {
		return apperror.NotFoundError(fmt.Sprintf("record %s not found in %s", id, w.table))
	}
	w.overlay.SetFields(id, fields)
	return nil
}

func (w *Workspace) IsDirty(id string) bool {
	return w.overlay.IsDirty(id)
}

func (w *Workspace) DirtyIDs() []string {
	return w.overlay.DirtyIDs()
}

// Discard cancels pending edits for id. Drafts are dropped entirely.
func (w *Workspace) Discard(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overlay.Clear(id)
	delete(w.drafts, id)
}

// NewDraft registers a placeholder for a record that does not exist in the
// store yet.
func (w *Workspace) NewDraft(seed models.Fields) string {
	id := models.NewPlaceholderID()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.drafts[id] = struct{}{}
	w.overlay.SetFields(id, seed)
	return id
}

// SaveOne writes the pending edits of id and adopts the store's echo as the
// new primary record. On failure the overlay is left as it was.
func (w *Workspace) SaveOne(ctx context.Context, id string) (models.Record, error) {
	if models.IsPlaceholderID(id) {
		return w.CreateFromOverlay(ctx, id)
	}

	pending, revision, err := w.beginSave(id)
	if err != nil {
		return models.Record{}, err
	}
	defer w.endSave(id)

	echo, err := w.store.Update(ctx, w.table, id, pending)
	if err != nil {
		logger.GetLogger().WithError(err).WithFields(map[string]interface{}{
			"table": w.table,
			"id":    id,
		}).Warn("Save failed, keeping pending edits")
		return models.Record{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.records[id]; !ok {
		logger.GetLogger().WithField("id", id).Info("Record removed during save, dropping echo")
		return echo.Clone(), nil
	}
	w.records[id] = echo
	w.wrote(id)
	if !w.overlay.ClearIfUnchanged(id, revision) {
		logger.GetLogger().WithField("id", id).Info("Record edited during save, newer edits stay pending")
	}
	return w.overlay.MergedView(echo), nil
}

// SaveAll saves every dirty record. A failure leaves that record dirty and
// does not undo the others.
func (w *Workspace) SaveAll(ctx context.Context) SaveAllResult {
	ids := w.overlay.DirtyIDs()
	result := SaveAllResult{Saved: []string{}, Failed: map[string]string{}}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(w.saveAllLimit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			saved, err := w.SaveOne(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err.Error()
				return nil
			}
			result.Saved = append(result.Saved, saved.ID)
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// CreateFromOverlay creates the draft id in the store. The store's id
// replaces the placeholder.
func (w *Workspace) CreateFromOverlay(ctx context.Context, placeholder string) (models.Record, error) {
	w.mu.RLock()
	_, ok := w.drafts[placeholder]
	w.mu.RUnlock()
	if !ok {
		return models.Record{}, apperror.NotFoundError(fmt.Sprintf("draft %s not found", placeholder))
	}

	pending, _, err := w.beginSave(placeholder)
	if err != nil {
		return models.Record{}, err
	}
	defer w.endSave(placeholder)

	created, err := w.store.Create(ctx, w.table, pending)
	if err != nil {
		return models.Record{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.drafts, placeholder)
	w.overlay.Clear(placeholder)
	w.order = append(w.order, created.ID)
	w.records[created.ID] = created
	w.wrote(created.ID)
	return created.Clone(), nil
}

// Create writes a new record straight from fields.
func (w *Workspace) Create(ctx context.Context, fields models.Fields) (models.Record, error) {
	if len(fields) == 0 {
		return models.Record{}, apperror.ValidationError("no fields to create")
	}
	created, err := w.store.Create(ctx, w.table, fields)
	if err != nil {
		return models.Record{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.order = append(w.order, created.ID)
	w.records[created.ID] = created
	w.wrote(created.ID)
	return created.Clone(), nil
}

// Remove deletes id and forgets any pending edits for it, saved or not.
func (w *Workspace) Remove(ctx context.Context, id string) error {
	if !models.IsPlaceholderID(id) {
		if err := w.store.Delete(ctx, w.table, id); err != nil {
			return err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.records, id)
	delete(w.drafts, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.overlay.Clear(id)
	w.wrote(id)
	return nil
}

// Replace adopts a record fetched outside of a save (for example by a
// verification re-read) as the primary copy. since is the WriteMark taken
// before the read; a record written locally after it is left alone.
func (w *Workspace) Replace(r models.Record, since uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.records[r.ID]; !ok {
		return false
	}
	if w.written[r.ID] > since {
		return false
	}
	w.records[r.ID] = r
	return true
}

// IdleSince reports when the workspace was last used.
func (w *Workspace) IdleSince() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastUsed
}

var ErrSaveInProgress = apperror.ConflictError("a save for this record is already in progress")

func (w *Workspace) beginSave(id string) (models.Fields, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	pending, revision := w.overlay.Pending(id)
	if len(pending) == 0 {
		return nil, 0, apperror.ValidationError(fmt.Sprintf("record %s has no unsaved changes", id))
	}
	if _, busy := w.saving[id]; busy {
		return nil, 0, ErrSaveInProgress
	}
	w.saving[id] = struct{}{}
	return pending, revision, nil
}

func (w *Workspace) endSave(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.saving, id)
}

// touch must be called with mu held for writing.
func (w *Workspace) touch() {
	w.lastUsed = time.Now()
}

// IsSaveInProgress reports whether err came from the per-record save gate.
func IsSaveInProgress(err error) bool {
	return errors.Is(err, ErrSaveInProgress)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

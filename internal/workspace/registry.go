package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"golang.org/x/sync/errgroup"
)

type key struct {
	userID int64
	table  string
}

// Registry hands out one workspace per user and table. Each signed-in user
// edits in isolation; nothing is shared between users except the store.
type Registry struct {
	store        airtable.RecordStore
	saveAllLimit int

	mu     sync.Mutex
	spaces map[key]*Workspace
}

func NewRegistry(store airtable.RecordStore, saveAllLimit int) *Registry {
	return &Registry{
		store:        store,
		saveAllLimit: saveAllLimit,
		spaces:       make(map[key]*Workspace),
	}
}

// Open returns the user's workspace for table, loading it on first use.
func (r *Registry) Open(ctx context.Context, userID int64, table string) (*Workspace, error) {
	w := r.get(userID, table)
	if err := w.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Lookup returns the user's workspace only if one is already open.
func (r *Registry) Lookup(userID int64, table string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.spaces[key{userID: userID, table: table}]
	return w, ok
}

func (r *Registry) get(userID int64, table string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{userID: userID, table: table}
	w, ok := r.spaces[k]
	if !ok {
		w = New(table, r.store)
		w.SetSaveAllLimit(r.saveAllLimit)
		r.spaces[k] = w
	}
	return w
}

// EvictIdle drops workspaces unused for longer than ttl, discarding their
// unsaved edits. Workspaces with a save in flight are kept.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	evicted := 0
	for k, w := range r.spaces {
		if w.IdleSince().After(cutoff) || w.busy() {
			continue
		}
		if dirty := len(w.DirtyIDs()); dirty > 0 {
			logger.GetLogger().WithFields(map[string]interface{}{
				"user_id": k.userID,
				"table":   k.table,
				"dirty":   dirty,
			}).Info("Discarding unsaved edits of idle workspace")
		}
		delete(r.spaces, k)
		evicted++
	}
	return evicted
}

// Refresh reloads every loaded workspace from the store, at most limit at a
// time. It returns the first error after all reloads finished.
func (r *Registry) Refresh(ctx context.Context, limit int) error {
	r.mu.Lock()
	spaces := make([]*Workspace, 0, len(r.spaces))
	for _, w := range r.spaces {
		if w.Loaded() {
			spaces = append(spaces, w)
		}
	}
	r.mu.Unlock()

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, w := range spaces {
		w := w
		g.Go(func() error {
			return w.Load(ctx)
		})
	}
	return g.Wait()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

func (w *Workspace) busy() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.saving) > 0
}

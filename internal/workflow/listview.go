package workflow

import (
	"context"
	"sync"

	"booktracker/internal/records"
	"booktracker/internal/store"
)

// ListView holds the rows last fetched from the store. Rows are replaced
// wholesale on every successful reload and never patched in place.
type ListView struct {
	store    store.DocumentStore
	reporter Reporter

	mu     sync.RWMutex
	rows   []records.Record
	loaded bool
}

// NewListView creates an empty, not yet loaded view.
func NewListView(s store.DocumentStore, r Reporter) *ListView {
	return &ListView{store: s, reporter: r}
}

// Reload fetches every record. On failure the previous rows are kept and the
// failure is reported.
func (v *ListView) Reload(ctx context.Context) error {
	rows, err := v.store.ListAll(ctx)
	if err != nil {
		report(v.reporter, LoadFailure(err))
		return err
	}

	v.mu.Lock()
	v.rows = rows
	v.loaded = true
	v.mu.Unlock()
	return nil
}

// Rows returns a copy of the current rows.
func (v *ListView) Rows() []records.Record {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]records.Record, len(v.rows))
	copy(out, v.rows)
	return out
}

// Loaded reports whether a reload has ever succeeded.
func (v *ListView) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Find looks a row up by id.
func (v *ListView) Find(id string) (records.Record, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, r := range v.rows {
		if r.ID == id {
			return r, true
		}
	}
	return records.Record{}, false
}

// LoadFailure is the Result for a failed list fetch.
func LoadFailure(err error) Result {
	return failure(OpList, "", "Error loading books", err.Error(), err)
}

package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"booktracker/internal/store"
)

// Desk is one signed-in user's workspace: their list view and the edit
// workflows they have in flight.
type Desk struct {
	store    store.DocumentStore
	reporter Reporter
	view     *ListView

	now   func() time.Time
	mu    sync.Mutex
	edits map[string]openEdit
}

type openEdit struct {
	edit    *Edit
	started time.Time
}

// NewDesk creates a desk with an empty list view.
func NewDesk(s store.DocumentStore, r Reporter) *Desk {
	return &Desk{
		store:    s,
		reporter: r,
		view:     NewListView(s, r),
		now:      time.Now,
		edits:    map[string]openEdit{},
	}
}

// View returns the desk's list view.
func (d *Desk) View() *ListView { return d.view }

// NewForm returns a fresh, open add-book form.
func (d *Desk) NewForm() *Form {
	f := NewForm(d.store, d.view, d.reporter)
	f.Open()
	return f
}

// Completion returns the completion workflow for this desk.
func (d *Desk) Completion() *Completion {
	return NewCompletion(d.store, d.view, d.reporter)
}

// StartEdit begins an edit workflow and returns its id.
func (d *Desk) StartEdit(recordID string) (string, *Edit, error) {
	e, err := NewEdit(d.store, d.view, d.reporter, recordID)
	if err != nil {
		return "", nil, err
	}
	wid := uuid.NewString()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits[wid] = openEdit{edit: e, started: d.now()}
	return wid, e, nil
}

// Edit looks up an in-flight edit workflow.
func (d *Desk) Edit(wid string) (*Edit, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	oe, ok := d.edits[wid]
	return oe.edit, ok
}

// Forget drops a workflow, normally once it is terminal.
func (d *Desk) Forget(wid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.edits, wid)
}

// ForgetStale drops workflows started more than maxAge ago, finished or
// not, and returns how many were dropped.
func (d *Desk) ForgetStale(maxAge time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	cutoff := d.now().Add(-maxAge)
	n := 0
	for wid, oe := range d.edits {
		if oe.started.Before(cutoff) {
			delete(d.edits, wid)
			n++
		}
	}
	return n
}

// OpenEdits is the number of workflows in flight.
func (d *Desk) OpenEdits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.edits)
}

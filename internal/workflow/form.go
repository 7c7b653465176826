package workflow

import (
	"context"

	"github.com/pkg/errors"

	"booktracker/internal/records"
	"booktracker/internal/store"
)

// ErrFormClosed is returned when submitting a form that is not open.
var ErrFormClosed = errors.New("form is not open")

// Form collects the four fields of a new record.
type Form struct {
	store    store.DocumentStore
	view     *ListView
	reporter Reporter

	open   bool
	values records.Fields
}

// NewForm creates a closed form that reloads view after a successful submit.
func NewForm(s store.DocumentStore, view *ListView, r Reporter) *Form {
	return &Form{store: s, view: view, reporter: r}
}

// Open shows the form.
func (f *Form) Open() { f.open = true }

// IsOpen reports whether the form is showing.
func (f *Form) IsOpen() bool { return f.open }

// Fill replaces the entered values.
func (f *Form) Fill(values records.Fields) { f.values = values }

// Values returns the entered values.
func (f *Form) Values() records.Fields { return f.values }

// Cancel closes the form and clears it without any remote call.
func (f *Form) Cancel() {
	f.open = false
	f.values = records.Fields{}
}

// Submit validates and creates the record. Validation problems come back as
// a validation.Errors error with nothing sent to the store. A store failure
// leaves the form open with its values and is returned as a failed Result.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	if !f.open {
		return Result{}, ErrFormClosed
	}
	values := f.values.Trimmed()
	if err := values.Validate(); err != nil {
		return Result{}, err
	}

	id, err := f.store.Create(ctx, values)
	if err != nil {
		return report(f.reporter, failure(OpCreate, "", "Error adding book", err.Error(), err)), nil
	}

	f.Cancel()
	res := report(f.reporter, Result{
		Op:       OpCreate,
		Outcome:  Success,
		Title:    "Book added!",
		Text:     "Your book has been recorded.",
		RecordID: id,
	})
	_ = f.view.Reload(ctx) // failures are reported by the view
	return res, nil
}

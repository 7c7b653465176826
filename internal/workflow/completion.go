package workflow

import (
	"context"

	"booktracker/internal/store"
)

// CompletionPrompt asks whether a borrowed book can be removed.
var CompletionPrompt = Confirmation{
	Title:       "Confirm",
	Text:        "Is your Book done used?",
	ConfirmText: "Yes",
	CancelText:  "No",
}

// Completion deletes a record once the user confirms it is returned.
type Completion struct {
	store    store.DocumentStore
	view     *ListView
	reporter Reporter
}

// NewCompletion creates a Completion that reloads view after a delete.
func NewCompletion(s store.DocumentStore, view *ListView, r Reporter) *Completion {
	return &Completion{store: s, view: view, reporter: r}
}

// Resolve acts on the user's answer. Declining is a silent no-op.
func (c *Completion) Resolve(ctx context.Context, id string, confirmed bool) Result {
	if !confirmed {
		return Result{Op: OpDelete, Outcome: Silent, RecordID: id}
	}

	if err := c.store.DeleteByID(ctx, id); err != nil {
		return report(c.reporter, failure(OpDelete, id, "Error", "An error occurred while deleting the book.", err))
	}

	res := report(c.reporter, Result{
		Op:       OpDelete,
		Outcome:  Success,
		Title:    "Deleted!",
		Text:     "Your book has been removed.",
		RecordID: id,
	})
	_ = c.view.Reload(ctx) // failures are reported by the view
	return res
}

// Run asks p for confirmation and resolves the answer.
func (c *Completion) Run(ctx context.Context, id string, p Prompter) (Result, error) {
	confirmed, err := p.Confirm(ctx, CompletionPrompt)
	if err != nil {
		return Result{}, err
	}
	return c.Resolve(ctx, id, confirmed), nil
}

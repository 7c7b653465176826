package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"booktracker/internal/records"
	"booktracker/internal/store"
)

// Stage is a state of the edit workflow.
type Stage int

const (
	AwaitingSection Stage = iota
	AwaitingTitle
	AwaitingGenre
	AwaitingDate
	Committing
	Done
	Cancelled
	Failed
)

var stageNames = [...]string{
	AwaitingSection: "awaiting_section",
	AwaitingTitle:   "awaiting_title",
	AwaitingGenre:   "awaiting_genre",
	AwaitingDate:    "awaiting_date",
	Committing:      "committing",
	Done:            "done",
	Cancelled:       "cancelled",
	Failed:          "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the workflow has finished.
func (s Stage) Terminal() bool {
	return s == Done || s == Cancelled || s == Failed
}

// field returns the record field a prompting stage collects.
func (s Stage) field() (string, bool) {
	switch s {
	case AwaitingSection:
		return records.FieldSection, true
	case AwaitingTitle:
		return records.FieldTitle, true
	case AwaitingGenre:
		return records.FieldGenre, true
	case AwaitingDate:
		return records.FieldDate, true
	}
	return "", false
}

var (
	// ErrUnknownRecord is returned when editing an id that is not in the view.
	ErrUnknownRecord = errors.New("record is not in the list")
	// ErrWorkflowFinished is returned when answering a finished workflow.
	ErrWorkflowFinished = errors.New("workflow already finished")
)

// Edit walks the user through section, title, genre and date, then commits
// all four with one update. Dismissing any prompt cancels with no remote call.
type Edit struct {
	store    store.DocumentStore
	view     *ListView
	reporter Reporter

	mu        sync.Mutex
	recordID  string
	stage     Stage
	draft     records.Fields
	promptErr string
	result    Result
}

// NewEdit starts an edit of a record currently shown in view. Prompts are
// pre-filled with the row's values.
func NewEdit(s store.DocumentStore, view *ListView, r Reporter, recordID string) (*Edit, error) {
	rec, ok := view.Find(recordID)
	if !ok {
		return nil, errors.Wrap(ErrUnknownRecord, recordID)
	}
	return &Edit{
		store:    s,
		view:     view,
		reporter: r,
		recordID: recordID,
		stage:    AwaitingSection,
		draft:    rec.Fields(),
	}, nil
}

// RecordID is the id of the record being edited.
func (e *Edit) RecordID() string { return e.recordID }

// Stage returns the current stage.
func (e *Edit) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// Draft returns the values collected so far.
func (e *Edit) Draft() records.Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Result returns the outcome once the workflow is terminal.
func (e *Edit) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.stage.Terminal()
}

// Prompt returns the dialog for the current stage, if it is awaiting input.
func (e *Edit) Prompt() (Prompt, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prompt()
}

func (e *Edit) prompt() (Prompt, bool) {
	name, ok := e.stage.field()
	if !ok {
		return Prompt{}, false
	}
	label := records.Label(name)
	p := Prompt{
		Stage:       e.stage,
		Field:       name,
		Title:       "Edit " + label,
		Label:       label,
		Placeholder: "Enter the updated " + name,
		InputType:   "text",
		Value:       e.draft.Get(name),
		Error:       e.promptErr,
	}
	if name == records.FieldDate {
		p.InputType = "date"
		p.Placeholder = "Select the updated date"
	}
	return p, true
}

// Answer applies the user's response to the current prompt. A blank value
// keeps the stage and sets the prompt error. Answering the date prompt
// commits the update.
func (e *Edit) Answer(ctx context.Context, a Answer) (Stage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name, ok := e.stage.field()
	if !ok {
		return e.stage, ErrWorkflowFinished
	}

	if a.Dismissed {
		e.stage = Cancelled
		e.promptErr = ""
		e.result = report(e.reporter, Result{Op: OpUpdate, Outcome: Info, Title: "Edit cancelled.", RecordID: e.recordID})
		return e.stage, nil
	}

	value := strings.TrimSpace(a.Value)
	if value == "" {
		e.promptErr = "Please enter the updated " + name + "."
		return e.stage, nil
	}

	e.promptErr = ""
	e.draft.Set(name, value)
	e.stage++
	if e.stage == Committing {
		e.commit(ctx)
	}
	return e.stage, nil
}

func (e *Edit) commit(ctx context.Context) {
	if err := e.store.UpdateByID(ctx, e.recordID, e.draft); err != nil {
		e.stage = Failed
		e.result = report(e.reporter, failure(OpUpdate, e.recordID, "Error updating book", err.Error(), err))
		return
	}

	e.stage = Done
	e.result = report(e.reporter, Result{Op: OpUpdate, Outcome: Success, Title: "Book updated successfully!", RecordID: e.recordID})
	_ = e.view.Reload(ctx) // failures are reported by the view
}

// RunEdit drives e to completion, blocking on p for every prompt.
func RunEdit(ctx context.Context, e *Edit, p Prompter) (Result, error) {
	for {
		prompt, ok := e.Prompt()
		if !ok {
			break
		}
		ans, err := p.Ask(ctx, prompt)
		if err != nil {
			return Result{}, err
		}
		if _, err := e.Answer(ctx, ans); err != nil {
			return Result{}, err
		}
	}
	res, _ := e.Result()
	return res, nil
}

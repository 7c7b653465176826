package workflow

import "context"

// Prompt is one blocking input dialog of the edit workflow.
type Prompt struct {
	Stage       Stage  `json:"stage"`
	Field       string `json:"field"`
	Title       string `json:"title"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	InputType   string `json:"input_type"`
	Value       string `json:"value"`
	Error       string `json:"error,omitempty"`
}

// Answer is the user's response to a Prompt.
type Answer struct {
	Value     string `json:"value"`
	Dismissed bool   `json:"dismissed"`
}

// Confirmation is a yes/no dialog.
type Confirmation struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	ConfirmText string `json:"confirm_text"`
	CancelText  string `json:"cancel_text"`
}

// Prompter shows dialogs and blocks until the user answers.
type Prompter interface {
	Ask(ctx context.Context, p Prompt) (Answer, error)
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

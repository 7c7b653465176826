package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktracker/internal/identity"
	"booktracker/internal/records"
	"booktracker/internal/session"
	"booktracker/internal/store"
	"booktracker/internal/workflow"
)

func TestAsk(t *testing.T) {
	ctx := context.Background()
	p := workflow.Prompt{Title: "Edit Title", Label: "Title", Value: "Dune", Error: "Please enter the updated title."}

	var out bytes.Buffer
	c := New(strings.NewReader("Dune Messiah\n\n/cancel\n"), &out)

	a, err := c.Ask(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, workflow.Answer{Value: "Dune Messiah"}, a)

	a, err = c.Ask(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, workflow.Answer{Value: "Dune"}, a, "empty line keeps the pre-filled value")

	a, err = c.Ask(ctx, p)
	require.NoError(t, err)
	assert.True(t, a.Dismissed)

	a, err = c.Ask(ctx, p)
	require.NoError(t, err)
	assert.True(t, a.Dismissed, "end of input dismisses")

	assert.Contains(t, out.String(), "! Please enter the updated title.")
	assert.Contains(t, out.String(), "Title [Dune]")
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	c := New(strings.NewReader("y\nYes\nno\n\n"), io.Discard)

	for _, want := range []bool{true, true, false, false, false} {
		got, err := c.Confirm(ctx, workflow.CompletionPrompt)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadLineHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(strings.NewReader("x\n"), io.Discard).ReadLine(ctx, "x")
	assert.Equal(t, context.Canceled, err)
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	c.Report(workflow.Result{Outcome: workflow.Success, Title: "Deleted!", Text: "Your book has been removed."})
	c.Report(workflow.Result{Outcome: workflow.Failure, Title: "Error updating book", Text: "boom"})
	c.Report(workflow.Result{Outcome: workflow.Silent, Title: "hidden"})
	c.Report(workflow.Result{Outcome: workflow.Info, Title: "Edit cancelled."})

	assert.Equal(t, "* Deleted! Your book has been removed.\n! Error updating book boom\n* Edit cancelled.\n", out.String())
}

func newShell(t *testing.T, script string) (*Shell, *store.Memory, *bytes.Buffer) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var out bytes.Buffer
	c := New(strings.NewReader(script), &out)
	st := store.NewMemory(logger)
	reg := session.NewRegistry(time.Hour, func(string) *workflow.Desk {
		return workflow.NewDesk(st, c)
	})
	return NewShell(c, identity.NewLocal(), reg, logger), st, &out
}

func TestShellLifecycle(t *testing.T) {
	script := strings.Join([]string{
		"2", "Ada", "ada@example.com", "555-0100", "correct horse",
		"1", "ada@example.com", "wrong password",
		"1", "ada@example.com", "correct horse",
		"a", "A1", "Dune", "SciFi", "2024-05-01",
		"e 1", "", "Dune Messiah", "", "",
		"c 1", "y",
		"q",
	}, "\n") + "\n"

	sh, st, out := newShell(t, script)
	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	for _, want := range []string{
		"Signup Successful You have successfully signed up!",
		"Login Failed Incorrect email or password.",
		"Signed in as ada@example.com",
		"No borrowed books.",
		"Book added! Your book has been recorded.",
		"Book updated successfully!",
		"Dune Messiah",
		"Deleted! Your book has been removed.",
	} {
		assert.Contains(t, text, want)
	}

	recs, err := st.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 0, sh.sessions.Len())
}

func TestShellAddValidationAndCancel(t *testing.T) {
	script := strings.Join([]string{
		"2", "Ada", "ada@example.com", "555-0100", "correct horse",
		"1", "ada@example.com", "correct horse",
		"a", "A1", "", "SciFi", "2024-05-01",
		"", "/cancel",
		"e 7",
		"o",
	}, "\n") + "\n"

	sh, st, out := newShell(t, script)
	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "! Title is required")
	assert.Contains(t, text, "Section [A1]")
	assert.Contains(t, text, "Cancelled")
	assert.Contains(t, text, "Pick a book number between 1 and 0")
	assert.Contains(t, text, "Signed out")

	recs, err := st.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestShellEditCancelled(t *testing.T) {
	script := strings.Join([]string{
		"2", "Ada", "ada@example.com", "555-0100", "correct horse",
		"1", "ada@example.com", "correct horse",
		"e 1", "/cancel",
		"q",
	}, "\n") + "\n"

	sh, st, out := newShell(t, script)
	_, err := st.Create(context.Background(), records.Fields{Section: "A1", Title: "Dune", Genre: "SciFi", Date: "2024-05-01"})
	require.NoError(t, err)

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "* Edit cancelled.")

	recs, err := st.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dune", recs[0].Title)
}

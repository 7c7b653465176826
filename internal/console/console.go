// Package console is the terminal front-end: blocking prompts on stdin and
// acknowledgments on stdout.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"booktracker/internal/workflow"
)

// CancelWord dismisses a prompt.
const CancelWord = "/cancel"

// Console reads answers line by line from in and writes to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal to read passwords from without echo, or -1.
	fd int
}

// New creates a Console over arbitrary streams. Passwords are read as plain lines.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewStdio creates a Console on the process terminal.
func NewStdio() *Console {
	c := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// Printf writes to the console output.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine prints label and returns the trimmed line typed by the user.
func (c *Console) ReadLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Printf("%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a line without echo when attached to a terminal.
func (c *Console) ReadPassword(ctx context.Context, label string) (string, error) {
	if c.fd < 0 {
		return c.ReadLine(ctx, label)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Printf("%s: ", label)
	raw, err := term.ReadPassword(c.fd)
	c.Printf("\n")
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(raw), nil
}

// Ask shows an edit prompt. An empty line keeps the pre-filled value,
// CancelWord or end of input dismisses the prompt.
func (c *Console) Ask(ctx context.Context, p workflow.Prompt) (workflow.Answer, error) {
	c.Printf("\n%s\n", p.Title)
	if p.Error != "" {
		c.Printf("  ! %s\n", p.Error)
	}
	line, err := c.ReadLine(ctx, fmt.Sprintf("%s [%s] (%s)", p.Label, p.Value, CancelWord))
	if err == io.EOF {
		return workflow.Answer{Dismissed: true}, nil
	}
	if err != nil {
		return workflow.Answer{}, err
	}

	switch line {
	case CancelWord:
		return workflow.Answer{Dismissed: true}, nil
	case "":
		return workflow.Answer{Value: p.Value}, nil
	}
	return workflow.Answer{Value: line}, nil
}

// Confirm shows a yes/no dialog. Anything but yes is a no.
func (c *Console) Confirm(ctx context.Context, conf workflow.Confirmation) (bool, error) {
	c.Printf("\n%s\n%s\n", conf.Title, conf.Text)
	line, err := c.ReadLine(ctx, fmt.Sprintf("%s/%s [y/N]", conf.ConfirmText, conf.CancelText))
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", strings.ToLower(conf.ConfirmText):
		return true, nil
	}
	return false, nil
}

// Report prints an acknowledgment.
func (c *Console) Report(r workflow.Result) {
	if r.Outcome == workflow.Silent {
		return
	}
	marker := "*"
	if r.Outcome == workflow.Failure {
		marker = "!"
	}
	if r.Text == "" {
		c.Printf("%s %s\n", marker, r.Title)
		return
	}
	c.Printf("%s %s %s\n", marker, r.Title, r.Text)
}

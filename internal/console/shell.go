package console

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"booktracker/internal/identity"
	"booktracker/internal/records"
	"booktracker/internal/session"
	"booktracker/internal/validation"
	"booktracker/internal/workflow"
)

var errQuit = errors.New("quit")

// Shell is the interactive sign-in and book menu.
type Shell struct {
	console  *Console
	gateway  identity.Gateway
	sessions *session.Registry
	log      log.FieldLogger
}

// NewShell creates a shell. Desks opened by sessions should report to c.
func NewShell(c *Console, g identity.Gateway, reg *session.Registry, l log.FieldLogger) *Shell {
	return &Shell{console: c, gateway: g, sessions: reg, log: l}
}

// Run loops between the sign-in screen and the book menu until the user
// quits or input ends.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		s, err := sh.authenticate(ctx)
		if err != nil {
			return quitOK(err)
		}
		err = sh.menu(ctx, s)
		sh.sessions.Close(s.Token)
		if err != nil {
			return quitOK(err)
		}
	}
}

func quitOK(err error) error {
	if err == errQuit || err == io.EOF {
		return nil
	}
	return err
}

func (sh *Shell) authenticate(ctx context.Context) (*session.Session, error) {
	c := sh.console
	for {
		c.Printf("\n[1] Sign in  [2] Sign up  [q] Quit\n")
		choice, err := c.ReadLine(ctx, ">")
		if err != nil {
			return nil, err
		}
		switch choice {
		case "1":
			s, err := sh.signIn(ctx)
			if err != nil {
				return nil, err
			}
			if s != nil {
				return s, nil
			}
		case "2":
			if err := sh.signUp(ctx); err != nil {
				return nil, err
			}
		case "q":
			return nil, errQuit
		}
	}
}

// signIn returns a nil session when the attempt failed and was reported.
func (sh *Shell) signIn(ctx context.Context) (*session.Session, error) {
	c := sh.console
	var creds identity.Credentials
	var err error
	if creds.Email, err = c.ReadLine(ctx, "Email"); err != nil {
		return nil, err
	}
	if creds.Password, err = c.ReadPassword(ctx, "Password"); err != nil {
		return nil, err
	}
	if err := creds.Validate(); err != nil {
		sh.printErrors(err.(validation.Errors))
		return nil, nil
	}

	id, err := sh.gateway.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		sh.authFailure(err)
		return nil, nil
	}
	s, err := sh.sessions.Open(id)
	if err != nil {
		return nil, err
	}
	sh.log.WithField("email", s.Email).Info("User signed in")
	c.Printf("Signed in as %s\n", s.Email)
	return s, nil
}

func (sh *Shell) signUp(ctx context.Context) error {
	c := sh.console
	var reg identity.Registration
	var err error
	if reg.Name, err = c.ReadLine(ctx, "Name"); err != nil {
		return err
	}
	if reg.Email, err = c.ReadLine(ctx, "Email"); err != nil {
		return err
	}
	if reg.Phone, err = c.ReadLine(ctx, "Phone number"); err != nil {
		return err
	}
	if reg.Password, err = c.ReadPassword(ctx, "Password"); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		sh.printErrors(err.(validation.Errors))
		return nil
	}

	if _, err := sh.gateway.SignUp(ctx, reg.Email, reg.Password); err != nil {
		if aerr, ok := identity.AsAuthError(err); ok && aerr.Code == identity.CodeEmailExists {
			c.Report(workflow.Result{Outcome: workflow.Failure, Title: "Signup Failed", Text: "Email already in use."})
			return nil
		}
		sh.authFailure(err)
		return nil
	}
	c.Report(workflow.Result{Outcome: workflow.Success, Title: "Signup Successful", Text: "You have successfully signed up!"})
	return nil
}

func (sh *Shell) authFailure(err error) {
	if aerr, ok := identity.AsAuthError(err); ok && aerr.IsWrongCredentials() {
		sh.console.Report(workflow.Result{Outcome: workflow.Failure, Title: "Login Failed", Text: "Incorrect email or password."})
		return
	}
	sh.log.WithError(err).Error("Identity provider call failed")
	sh.console.Report(workflow.Result{Outcome: workflow.Failure, Title: "Error", Text: err.Error()})
}

func (sh *Shell) printErrors(verrs validation.Errors) {
	names := make([]string, 0, len(verrs))
	for name := range verrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sh.console.Printf("  ! %s\n", verrs[name])
	}
}

// menu runs the book commands for one session. It returns nil on logout.
func (sh *Shell) menu(ctx context.Context, s *session.Session) error {
	c := sh.console
	desk := s.Desk
	if err := desk.View().Reload(ctx); err == nil {
		sh.printRows(desk.View().Rows())
	}

	for {
		c.Printf("\n[l] List  [a] Add  [e N] Edit  [c N] Complete  [o] Logout  [q] Quit\n")
		line, err := c.ReadLine(ctx, ">")
		if err != nil {
			return err
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "l":
			if err := desk.View().Reload(ctx); err == nil {
				sh.printRows(desk.View().Rows())
			}
		case "a":
			if err := sh.add(ctx, desk); err != nil {
				return err
			}
		case "e":
			if err := sh.edit(ctx, desk, arg); err != nil {
				return err
			}
		case "c":
			if err := sh.complete(ctx, desk, arg); err != nil {
				return err
			}
		case "o":
			c.Printf("Signed out\n")
			return nil
		case "q":
			return errQuit
		}
	}
}

func splitCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func (sh *Shell) printRows(rows []records.Record) {
	if len(rows) == 0 {
		sh.console.Printf("No borrowed books.\n")
		return
	}
	w := tabwriter.NewWriter(sh.console.out, 0, 4, 2, ' ', 0)
	sh.console.Printf("\n")
	_, _ = io.WriteString(w, "#\tSection\tTitle\tGenre\tDate\n")
	for i, r := range rows {
		_, _ = io.WriteString(w, strings.Join([]string{strconv.Itoa(i + 1), r.Section, r.Title, r.Genre, r.Date}, "\t")+"\n")
	}
	_ = w.Flush()
}

// pick resolves a 1-based row number against the rows on screen.
func (sh *Shell) pick(desk *workflow.Desk, arg string) (records.Record, bool) {
	rows := desk.View().Rows()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(rows) {
		sh.console.Printf("  ! Pick a book number between 1 and %d\n", len(rows))
		return records.Record{}, false
	}
	return rows[n-1], true
}

// add asks for the four fields until the form is submitted or cancelled.
func (sh *Shell) add(ctx context.Context, desk *workflow.Desk) error {
	c := sh.console
	form := desk.NewForm()
	c.Printf("\nAdd a borrowed book (%s to cancel)\n", CancelWord)
	for form.IsOpen() {
		values := form.Values()
		for _, name := range records.FieldNames {
			label := records.Label(name)
			if cur := values.Get(name); cur != "" {
				label += " [" + cur + "]"
			}
			line, err := c.ReadLine(ctx, label)
			if err != nil {
				return err
			}
			if line == CancelWord {
				form.Cancel()
				c.Printf("Cancelled\n")
				return nil
			}
			if line != "" {
				values.Set(name, line)
			}
		}
		form.Fill(values)

		res, err := form.Submit(ctx)
		if verrs, ok := err.(validation.Errors); ok {
			sh.printErrors(verrs)
			continue
		}
		if err != nil {
			return err
		}
		if !res.OK() {
			// the form keeps its values; let the user retry or cancel
			continue
		}
		sh.printRows(desk.View().Rows())
	}
	return nil
}

func (sh *Shell) edit(ctx context.Context, desk *workflow.Desk, arg string) error {
	rec, ok := sh.pick(desk, arg)
	if !ok {
		return nil
	}
	wid, e, err := desk.StartEdit(rec.ID)
	if err != nil {
		return err
	}
	defer desk.Forget(wid)

	if _, err := workflow.RunEdit(ctx, e, sh.console); err != nil {
		return err
	}
	if e.Stage() == workflow.Done {
		sh.printRows(desk.View().Rows())
	}
	return nil
}

func (sh *Shell) complete(ctx context.Context, desk *workflow.Desk, arg string) error {
	rec, ok := sh.pick(desk, arg)
	if !ok {
		return nil
	}
	res, err := desk.Completion().Run(ctx, rec.ID, sh.console)
	if err != nil {
		return err
	}
	if res.OK() {
		sh.printRows(desk.View().Rows())
	}
	return nil
}

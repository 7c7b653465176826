// Package workflow implements the borrowed book lifecycle: listing, adding,
// editing and completing records, each with its confirm and cancel gates.
package workflow

import (
	log "github.com/sirupsen/logrus"
)

// Operation names the remote call a Result is about.
type Operation string

const (
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Outcome is how a Result should be acknowledged.
type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "error"
	Info    Outcome = "info"
	// Silent results are never shown to the user.
	Silent Outcome = "silent"
)

// Result is the acknowledgment every operation produces.
type Result struct {
	Op       Operation `json:"op"`
	Outcome  Outcome   `json:"outcome"`
	Title    string    `json:"title,omitempty"`
	Text     string    `json:"text,omitempty"`
	RecordID string    `json:"record_id,omitempty"`
	Err      error     `json:"-"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}

func failure(op Operation, id, title, text string, err error) Result {
	return Result{Op: op, Outcome: Failure, Title: title, Text: text, RecordID: id, Err: err}
}

// Reporter receives every non-silent Result.
type Reporter interface {
	Report(Result)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(Result)

func (f ReporterFunc) Report(r Result) { f(r) }

// Reporters fans a Result out to several reporters.
type Reporters []Reporter

func (rs Reporters) Report(r Result) {
	for _, rep := range rs {
		rep.Report(r)
	}
}

// LogReporter writes results to the operator log.
type LogReporter struct {
	Log log.FieldLogger
}

func (l LogReporter) Report(r Result) {
	entry := l.Log.WithFields(log.Fields{"op": r.Op, "outcome": r.Outcome})
	if r.RecordID != "" {
		entry = entry.WithField("record_id", r.RecordID)
	}
	switch r.Outcome {
	case Failure:
		if r.Err != nil {
			entry = entry.WithError(r.Err)
		}
		entry.Error(r.Title)
	case Silent:
		entry.Debug(r.Title)
	default:
		entry.Info(r.Title)
	}
}

func report(rep Reporter, r Result) Result {
	if rep != nil && r.Outcome != Silent {
		rep.Report(r)
	}
	return r
}

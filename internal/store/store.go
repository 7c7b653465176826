// Package store holds the document store backends for the borrowed books collection.
package store

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"booktracker/internal/records"
)

// DefaultCollection is the collection name used by the hosted document stores.
const DefaultCollection = "Books Borrowed"

var (
	// ErrNotFound is returned when an update or delete targets a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = errors.New("update has no fields")
)

// DocumentStore is a flat, schemaless collection of borrowed book documents.
// ListAll makes no ordering promise.
type DocumentStore interface {
	Create(ctx context.Context, fields records.Fields) (string, error)
	ListAll(ctx context.Context) ([]records.Record, error)
	UpdateByID(ctx context.Context, id string, fields records.Fields) error
	DeleteByID(ctx context.Context, id string) error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the store if it supports it.
func Ping(ctx context.Context, s DocumentStore) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func loggerOrDefault(l log.FieldLogger) log.FieldLogger {
	if l == nil {
		return log.StandardLogger()
	}
	return l
}

// decode turns a raw document into a Record. Malformed documents are logged and skipped.
func decode(l log.FieldLogger, id string, doc map[string]interface{}) (records.Record, bool) {
	rec, err := records.FromDocument(id, doc)
	if err != nil {
		l.WithError(err).WithField("id", id).Warn("Skipping malformed document")
		return records.Record{}, false
	}
	return rec, true
}

func patchOf(fields records.Fields) (map[string]interface{}, error) {
	patch := fields.Patch()
	if len(patch) == 0 {
		return nil, ErrEmptyUpdate
	}
	return patch, nil
}

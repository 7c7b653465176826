package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uniplaces/carbon"

	"booktracker/internal/records"
)

// MySQL stores each record as a JSON document in a single table.
type MySQL struct {
	db  *sql.DB
	log log.FieldLogger
}

// NewMySQL creates a MySQL store instance
func NewMySQL(db *sql.DB, l log.FieldLogger) *MySQL {
	return &MySQL{db: db, log: loggerOrDefault(l)}
}

// GetDB returns the underlying sql.DB instance
func (store *MySQL) GetDB() *sql.DB {
	return store.db
}

// EnsureSchema creates the documents table if it is missing.
func (store *MySQL) EnsureSchema(ctx context.Context) error {
	_, err := store.db.ExecContext(ctx, createTableSQL)
	return errors.Wrap(err, "creating "+TableName)
}

func (store *MySQL) Ping(ctx context.Context) error {
	return store.db.PingContext(ctx)
}

func (store *MySQL) Create(ctx context.Context, fields records.Fields) (string, error) {
	body, err := json.Marshal(fields.Document())
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}

	id := uuid.NewString()
	now := carbon.Now().DateTimeString()
	_, err = store.db.ExecContext(ctx,
		"INSERT INTO "+TableName+" (id, body, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, body, now, now)
	if err != nil {
		return "", errors.Wrap(err, "inserting document")
	}
	return id, nil
}

func (store *MySQL) ListAll(ctx context.Context) ([]records.Record, error) {
	rows, err := store.db.QueryContext(ctx, "SELECT id, body, created_at, updated_at FROM "+TableName)
	if err != nil {
		return nil, errors.Wrap(err, "listing documents")
	}
	defer rows.Close()

	var out []records.Record
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning document")
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(doc.Body, &raw); err != nil {
			store.log.WithError(err).WithField("id", doc.ID).Warn("Skipping document with invalid JSON body")
			continue
		}
		if rec, ok := decode(store.log, doc.ID, raw); ok {
			out = append(out, rec)
		}
	}
	return out, errors.Wrap(rows.Err(), "iterating documents")
}

func (store *MySQL) UpdateByID(ctx context.Context, id string, fields records.Fields) error {
	patch, err := patchOf(fields)
	if err != nil {
		return err
	}

	// one JSON_SET keeps the update atomic for the row
	paths := make([]string, 0, len(patch))
	args := make([]interface{}, 0, 2*len(patch)+2)
	for _, name := range records.FieldNames {
		v, ok := patch[name]
		if !ok {
			continue
		}
		paths = append(paths, "'$."+name+"', ?")
		args = append(args, v)
	}
	args = append(args, carbon.Now().DateTimeString(), id)

	query := "UPDATE " + TableName + " SET body = JSON_SET(body, " + strings.Join(paths, ", ") + "), updated_at = ? WHERE id = ?"
	res, err := store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	if n > 0 {
		return nil
	}

	// zero affected rows also happens when the values did not change
	return store.exists(ctx, id)
}

func (store *MySQL) DeleteByID(ctx context.Context, id string) error {
	res, err := store.db.ExecContext(ctx, "DELETE FROM "+TableName+" WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *MySQL) exists(ctx context.Context, id string) error {
	var one int
	err := store.db.QueryRowContext(ctx, "SELECT 1 FROM "+TableName+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return errors.Wrap(err, "checking document")
}

package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"booktracker/internal/records"
)

// Firestore stores records in a Cloud Firestore collection.
type Firestore struct {
	client     *firestore.Client
	collection string
	log        log.FieldLogger
}

// NewFirestore creates a Firestore store over the named collection.
func NewFirestore(client *firestore.Client, collection string, l log.FieldLogger) *Firestore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Firestore{client: client, collection: collection, log: loggerOrDefault(l)}
}

// Ping reads at most one document of the collection.
func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.client.Collection(f.collection).Limit(1).Documents(ctx).Next()
	if err == iterator.Done {
		return nil
	}
	return errors.Wrap(err, "reading "+f.collection)
}

func (f *Firestore) Create(ctx context.Context, fields records.Fields) (string, error) {
	ref, _, err := f.client.Collection(f.collection).Add(ctx, fields.Document())
	if err != nil {
		return "", errors.Wrap(err, "adding document")
	}
	return ref.ID, nil
}

func (f *Firestore) ListAll(ctx context.Context) ([]records.Record, error) {
	snaps, err := f.client.Collection(f.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "getting documents")
	}

	out := make([]records.Record, 0, len(snaps))
	for _, snap := range snaps {
		if rec, ok := decode(f.log, snap.Ref.ID, snap.Data()); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *Firestore) UpdateByID(ctx context.Context, id string, fields records.Fields) error {
	patch, err := patchOf(fields)
	if err != nil {
		return err
	}

	updates := make([]firestore.Update, 0, len(patch))
	for _, name := range records.FieldNames {
		if v, ok := patch[name]; ok {
			updates = append(updates, firestore.Update{Path: name, Value: v})
		}
	}
	_, err = f.client.Collection(f.collection).Doc(id).Update(ctx, updates)
	return translateFirestore(err, "updating document")
}

func (f *Firestore) DeleteByID(ctx context.Context, id string) error {
	_, err := f.client.Collection(f.collection).Doc(id).Delete(ctx, firestore.Exists)
	return translateFirestore(err, "deleting document")
}

func translateFirestore(err error, op string) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return errors.Wrap(err, op)
}

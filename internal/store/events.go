package store

import (
	"context"

	"booktracker/internal/dispatcher"
	"booktracker/internal/records"
)

// EventSink receives lifecycle events after successful mutations.
type EventSink interface {
	Emit(dispatcher.Event)
}

type eventStore struct {
	DocumentStore
	sink EventSink
}

// WithEvents wraps a store so every successful mutation emits an event to sink.
func WithEvents(inner DocumentStore, sink EventSink) DocumentStore {
	return &eventStore{DocumentStore: inner, sink: sink}
}

func (s *eventStore) Create(ctx context.Context, fields records.Fields) (string, error) {
	id, err := s.DocumentStore.Create(ctx, fields)
	if err != nil {
		return "", err
	}
	s.sink.Emit(dispatcher.NewEvent(dispatcher.RecordCreated, id, &fields))
	return id, nil
}

func (s *eventStore) UpdateByID(ctx context.Context, id string, fields records.Fields) error {
	if err := s.DocumentStore.UpdateByID(ctx, id, fields); err != nil {
		return err
	}
	s.sink.Emit(dispatcher.NewEvent(dispatcher.RecordUpdated, id, &fields))
	return nil
}

func (s *eventStore) DeleteByID(ctx context.Context, id string) error {
	if err := s.DocumentStore.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.sink.Emit(dispatcher.NewEvent(dispatcher.RecordDeleted, id, nil))
	return nil
}

func (s *eventStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.DocumentStore)
}

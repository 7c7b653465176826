package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"booktracker/internal/records"
)

// Memory is an in-process document store. Map iteration order is random,
// so ListAll ordering varies between calls like the hosted stores.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
	log  log.FieldLogger
}

// NewMemory creates an empty Memory store.
func NewMemory(l log.FieldLogger) *Memory {
	return &Memory{
		docs: map[string]map[string]interface{}{},
		log:  loggerOrDefault(l),
	}
}

func (m *Memory) Create(_ context.Context, fields records.Fields) (string, error) {
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = fields.Document()
	return id, nil
}

func (m *Memory) ListAll(_ context.Context) ([]records.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]records.Record, 0, len(m.docs))
	for id, doc := range m.docs {
		if rec, ok := decode(m.log, id, doc); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) UpdateByID(_ context.Context, id string, fields records.Fields) error {
	patch, err := patchOf(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	merged := make(map[string]interface{}, len(doc)+len(patch))
	for k, v := range doc {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	m.docs[id] = merged
	return nil
}

func (m *Memory) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

// PutDocument stores a raw document under id, replacing any existing one.
func (m *Memory) PutDocument(id string, doc map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = doc
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

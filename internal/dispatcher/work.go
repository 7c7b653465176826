package dispatcher

import (
	"github.com/uniplaces/carbon"

	"booktracker/internal/records"
)

// EventType names a record lifecycle change.
type EventType string

const (
	RecordCreated EventType = "record.created"
	RecordUpdated EventType = "record.updated"
	RecordDeleted EventType = "record.deleted"
)

// Event is one lifecycle change, published as the body of a queue message.
type Event struct {
	Type       EventType       `json:"type"`
	RecordID   string          `json:"record_id"`
	Fields     *records.Fields `json:"fields,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, id string, fields *records.Fields) Event {
	return Event{
		Type:       t,
		RecordID:   id,
		Fields:     fields,
		OccurredAt: carbon.Now().DateTimeString(),
	}
}

// IsValid reports whether the event can be published.
func (e *Event) IsValid() bool {
	switch e.Type {
	case RecordCreated, RecordUpdated, RecordDeleted:
	default:
		return false
	}
	return e.RecordID != "" && e.OccurredAt != ""
}

package dispatcher

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Dispatcher buffers events between the request path and the queue workers.
// Emit never blocks; events are dropped when the buffer is full.
type Dispatcher struct {
	queue  chan Event
	log    log.FieldLogger
	mu     sync.RWMutex
	closed bool
}

// New creates a Dispatcher with the given buffer size.
func New(buffer int, l log.FieldLogger) *Dispatcher {
	if buffer <= 0 {
		buffer = 10
	}
	if l == nil {
		l = log.StandardLogger()
	}
	return &Dispatcher{queue: make(chan Event, buffer), log: l}
}

// Emit queues an event for publishing.
func (d *Dispatcher) Emit(e Event) {
	if !e.IsValid() {
		d.log.WithField("event", e).Warn("Dropping invalid event")
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.WithField("type", e.Type).Warn("Dispatcher closed, dropping event")
		return
	}
	select {
	case d.queue <- e:
	default:
		d.log.WithFields(log.Fields{"type": e.Type, "record_id": e.RecordID}).Warn("Event buffer full, dropping event")
	}
}

// Events is the channel workers consume from.
func (d *Dispatcher) Events() <-chan Event {
	return d.queue
}

// Close stops accepting events; workers drain what is buffered and exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

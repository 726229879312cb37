package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Event struct {
	SalonID  uuid.UUID  `json:"salon_id"`
	ActorID  *uuid.UUID `json:"actor_id,omitempty"`
	Action   string     `json:"action"`
	Entity   string     `json:"entity"`
	EntityID *uuid.UUID `json:"entity_id,omitempty"`
	Metadata any        `json:"metadata,omitempty"`
}

// Sink receives dispatched events. The database logger, the redis
// publisher and the AMQP publisher are sinks.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks  []Sink
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}

	// mu guards closed; senders hold the read lock so the queue is never
	// closed under them.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:  sinks,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Record(context.Background(), ev); err != nil {
				d.logger.Warn("audit sink failed",
					zap.String("action", ev.Action),
					zap.Error(err),
				)
			}
		}
	}
}

// Dispatch never blocks the caller; when the queue is full or the
// dispatcher is closed the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue and waits for the worker to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

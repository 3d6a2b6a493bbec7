package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
)

type Event struct {
	LocationID string    `json:"locationId"`
	ActorID    *string   `json:"actorId,omitempty"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   *string   `json:"entityId,omitempty"`
	Metadata   any       `json:"metadata,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Sink receives audit events. Sinks must be safe for use by one goroutine.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Write(ctx, ev); err != nil {
				logging.GetLogger().Error("audit sink failed",
					zap.String("action", ev.Action),
					zap.Error(err))
			}
			cancel()
		}
	}
}

// Dispatch enqueues ev without blocking. Audit never fails the request, so a
// full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		logging.GetLogger().Warn("audit queue full, dropping event",
			zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits until queued ones reach the sinks.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

// Ref turns an id into the optional reference used by Event.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

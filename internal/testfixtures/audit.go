package testfixtures

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
)

// AuditRecorder is an audit sink that keeps every event in memory. Close
// the dispatcher before reading Events.
type AuditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *AuditRecorder) Write(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *AuditRecorder) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

// Actions lists recorded actions in order.
func (r *AuditRecorder) Actions() []string {
	var out []string
	for _, ev := range r.Events() {
		out = append(out, ev.Action)
	}
	return out
}

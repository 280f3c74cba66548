package audit

import (
	"time"
)

// Publisher hands audit events to the worker without blocking the request
// path. A full inbox drops the event and reports it through the onDrop hook
// rather than stalling a lifecycle transition.
type Publisher struct {
	inbox  chan<- Event
	now    func() time.Time
	onDrop func()
}

func NewPublisher(inbox chan<- Event, now func() time.Time, onDrop func()) *Publisher {
	if now == nil {
		now = time.Now
	}
	if onDrop == nil {
		onDrop = func() {}
	}
	return &Publisher{inbox: inbox, now: now, onDrop: onDrop}
}

// Emit enqueues the event, stamping the timestamp when unset.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		p.onDrop()
	}
}

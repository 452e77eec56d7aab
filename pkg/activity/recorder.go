package activity

import (
	"context"
	"slices"
	"sync"
)

// Recorder is a Hook that keeps every event it is notified of. Fail, when
// set, is returned from Notify after the event is recorded.
type Recorder struct {
	Fail error

	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.Normalize())
	return r.Fail
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Verbs returns the verb of each recorded event.
func (r *Recorder) Verbs() []string {
	events := r.Events()
	verbs := make([]string, len(events))
	for i, event := range events {
		verbs[i] = event.Verb
	}
	return verbs
}

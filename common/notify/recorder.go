package notify

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory, it is used in tests
type Recorder struct {
	mutex  sync.Mutex
	events []*Event
}

func (r *Recorder) Publish(_ context.Context, event *Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Close() {}

func (r *Recorder) Events(eventType string) []*Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var result []*Event
	for _, event := range r.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

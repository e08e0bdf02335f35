package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TestSuiteResultFinished = "test_suite_result.finished"
	TestResultReclaimed     = "test_result.reclaimed"
	SubmitCreated           = "submit.created"
)

type Event struct {
	ID   string    `json:"ID"`
	Type string    `json:"Type"`
	Time time.Time `json:"Time"`

	SubmitID          uint   `json:"SubmitID,omitempty"`
	TestSuiteResultID uint   `json:"TestSuiteResultID,omitempty"`
	TestResultID      uint   `json:"TestResultID,omitempty"`
	Status            string `json:"Status,omitempty"`
}

func NewEvent(eventType string) *Event {
	return &Event{
		ID:   uuid.NewString(),
		Type: eventType,
		Time: time.Now(),
	}
}

// Notifier delivers events best effort. Publish must not block for long and must not fail the caller
type Notifier interface {
	Publish(ctx context.Context, event *Event)
	Close()
}

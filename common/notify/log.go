package notify

import (
	"context"
	"satori/lib/logger"
)

type logNotifier struct{}

// NewLogNotifier is used when no message broker is configured
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Publish(_ context.Context, event *Event) {
	logger.Debug("event %s: submit %d, suite result %d, test result %d, status %q",
		event.Type, event.SubmitID, event.TestSuiteResultID, event.TestResultID, event.Status)
}

func (logNotifier) Close() {}

package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var n Notifier = r

	event := NewEvent(TestSuiteResultFinished)
	event.Status = "OK"
	n.Publish(context.Background(), event)
	n.Publish(context.Background(), NewEvent(TestResultReclaimed))

	finished := r.Events(TestSuiteResultFinished)
	require.Len(t, finished, 1)
	require.Equal(t, "OK", finished[0].Status)
	require.NotEmpty(t, finished[0].ID)
	require.Len(t, r.Events(TestResultReclaimed), 1)
}

func TestNewNotifierWithoutNats(t *testing.T) {
	n, err := NewNotifier(nil)
	require.NoError(t, err)
	// log notifier must accept events without any broker
	n.Publish(context.Background(), NewEvent(SubmitCreated))
	n.Close()
}

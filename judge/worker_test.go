package judge

import (
	"context"
	"errors"
	"satori/common/connectors/judgeconn"
	"satori/common/constants/status"
	"satori/common/db/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mutex   sync.Mutex
	tasks   []*judgeconn.Task
	results map[uint]models.OAMap
	polls   int

	expected int
	done     chan struct{}
}

func newFakeDispatcher(count int) *fakeDispatcher {
	d := &fakeDispatcher{
		results:  make(map[uint]models.OAMap),
		expected: count,
		done:     make(chan struct{}),
	}
	for i := range count {
		d.tasks = append(d.tasks, &judgeconn.Task{TestResultID: uint(i + 1), Attempt: 1})
	}
	if count == 0 {
		close(d.done)
	}
	return d
}

func (d *fakeDispatcher) GetNext(context.Context, string) (*judgeconn.Task, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.polls++
	if len(d.tasks) == 0 {
		return nil, nil
	}
	task := d.tasks[0]
	d.tasks = d.tasks[1:]
	return task, nil
}

func (d *fakeDispatcher) SetResult(_ context.Context, testResultID uint, _ uint64, result models.OAMap) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.results[testResultID]; ok {
		return errors.New("already reported")
	}
	d.results[testResultID] = result
	if len(d.results) == d.expected {
		close(d.done)
	}
	return nil
}

func (d *fakeDispatcher) pollCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.polls
}

type fakeRunner struct {
	err error
}

func (r *fakeRunner) Run(_ context.Context, task *judgeconn.Task) (models.OAMap, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := models.OAMap{}
	result.SetStr(status.AttrStatus, status.OK)
	return result, nil
}

func runUntilDone(t *testing.T, d *fakeDispatcher, workers []*Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error)
	go func() {
		finished <- RunPool(ctx, workers)
	}()

	select {
	case <-d.done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks are not processed in time")
	}
	cancel()
	require.NoError(t, <-finished)
}

func TestWorkerReportsResults(t *testing.T) {
	d := newFakeDispatcher(3)
	runUntilDone(t, d, NewWorkers("judge", 1, d, &fakeRunner{}, time.Millisecond, 10*time.Millisecond))

	require.Len(t, d.results, 3)
	for _, result := range d.results {
		s, _ := result.GetStr(status.AttrStatus)
		require.Equal(t, status.OK, s)
	}
}

func TestWorkerReportsInternalError(t *testing.T) {
	d := newFakeDispatcher(1)
	runner := &fakeRunner{err: errors.New("sandbox is broken")}
	runUntilDone(t, d, NewWorkers("judge", 1, d, runner, time.Millisecond, 10*time.Millisecond))

	result := d.results[1]
	s, _ := result.GetStr(status.AttrStatus)
	require.Equal(t, status.INT, s)
	report, _ := result.GetStr(status.AttrReport)
	require.Equal(t, "sandbox is broken", report)
}

func TestPoolChecksEveryTaskOnce(t *testing.T) {
	d := newFakeDispatcher(50)
	runUntilDone(t, d, NewWorkers("judge", 4, d, &fakeRunner{}, time.Millisecond, 10*time.Millisecond))
	require.Len(t, d.results, 50)
}

func TestWorkerBacksOffWhenIdle(t *testing.T) {
	d := newFakeDispatcher(0)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	worker := NewWorker("judge", d, &fakeRunner{}, 10*time.Millisecond, 80*time.Millisecond)
	require.NoError(t, worker.Run(ctx))

	// without backoff there would be about 30 polls
	polls := d.pollCount()
	require.GreaterOrEqual(t, polls, 2)
	require.Less(t, polls, 20)
}

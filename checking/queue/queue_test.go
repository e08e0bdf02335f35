package queue

import (
	"context"
	"fmt"
	"satori/checking/reporters"
	"satori/checking/session"
	"satori/checking/storage"
	"satori/common"
	"satori/common/config"
	"satori/common/connectors/judgeconn"
	"satori/common/constants/status"
	"satori/common/db/models"
	"satori/common/notify"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	storage  *storage.Storage
	notifier *notify.Recorder
	queue    *Queue
	clock    time.Time
}

func newFixture(t *testing.T, judges map[string]*config.JudgePermissions) *fixture {
	cfg := &config.Config{
		DB:       config.DBConfig{InMemory: true},
		Checking: &config.CheckingConfig{Judges: judges},
	}
	config.FillInConfig(cfg)
	ts := common.NewTestingSystem(cfg)
	recorder := &notify.Recorder{}
	ts.Notifier = recorder

	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		storage:  storage.NewStorage(ts.DB),
		notifier: recorder,
		clock:    time.UnixMilli(1_000_000),
	}
	sessions := session.NewManager(f.storage, reporters.Status, ts.Metrics, ts.Notifier)
	f.queue = NewQueue(ts, f.storage, sessions, NewConfigPermissions(cfg.Checking)).(*Queue)
	f.queue.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) submit(reporter string, testCount int) (*models.TestSuite, *models.TestSuiteResult) {
	tests := make([]*models.Test, 0, testCount)
	for i := range testCount {
		tests = append(tests, &models.Test{Name: fmt.Sprintf("t%d", i+1)})
	}
	suite, err := f.storage.CreateTestSuite(f.ctx, "suite", reporter, tests)
	require.NoError(f.t, err)
	submitData := models.OAMap{}
	submitData.SetStr("language", "go")
	_, suiteResults, err := f.storage.CreateSubmit(f.ctx, submitData, nil, []uint{suite.ID})
	require.NoError(f.t, err)
	return suite, suiteResults[0]
}

func (f *fixture) next(judge string) *judgeconn.Task {
	task, err := f.queue.GetNext(f.ctx, judge)
	require.NoError(f.t, err)
	return task
}

func (f *fixture) report(task *judgeconn.Task, testStatus string) error {
	result := models.OAMap{}
	result.SetStr(status.AttrStatus, testStatus)
	return f.queue.SetResult(f.ctx, task.TestResultID, task.Attempt, result)
}

func TestEmptyQueue(t *testing.T) {
	f := newFixture(t, nil)
	require.Nil(t, f.next("judge"))
}

func TestTaskData(t *testing.T) {
	f := newFixture(t, nil)
	f.submit("", 1)

	task := f.next("judge")
	require.NotNil(t, task)
	require.EqualValues(t, 1, task.Attempt)
	language, ok := task.SubmitData.GetStr("language")
	require.True(t, ok)
	require.Equal(t, "go", language)
	require.Nil(t, f.next("judge"))
}

func TestClaimExclusivity(t *testing.T) {
	f := newFixture(t, nil)
	f.submit("PointsReporter", 20)

	var mutex sync.Mutex
	claimed := make(map[uint]int)
	var g errgroup.Group
	for i := range 8 {
		judge := fmt.Sprintf("judge-%d", i)
		g.Go(func() error {
			for {
				task, err := f.queue.GetNext(f.ctx, judge)
				if err != nil {
					return err
				}
				if task == nil {
					return nil
				}
				mutex.Lock()
				claimed[task.TestResultID]++
				mutex.Unlock()
			}
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, claimed, 20)
	for id, count := range claimed {
		require.Equal(t, 1, count, "test result %d claimed several times", id)
	}
}

func TestLeaseExpiry(t *testing.T) {
	f := newFixture(t, nil)
	f.submit("", 1)

	first := f.next("first")
	require.NotNil(t, first)
	require.Nil(t, f.next("second"))

	f.clock = f.clock.Add(3 * time.Minute)
	second := f.next("second")
	require.NotNil(t, second)
	require.Equal(t, first.TestResultID, second.TestResultID)
	require.Equal(t, first.Attempt+1, second.Attempt)

	require.ErrorIs(t, f.report(first, status.OK), ErrStaleClaim)
	require.NoError(t, f.report(second, status.OK))
	require.ErrorIs(t, f.report(second, status.OK), ErrAlreadyReported)

	err := f.queue.SetResult(f.ctx, 1000, 1, models.OAMap{})
	require.ErrorIs(t, err, ErrTestResultNotFound)
}

func TestReclaimExpired(t *testing.T) {
	f := newFixture(t, nil)
	f.submit("", 2)

	task := f.next("judge")
	require.NotNil(t, task)

	released, err := f.queue.ReclaimExpired(f.ctx)
	require.NoError(t, err)
	require.Zero(t, released)

	f.clock = f.clock.Add(3 * time.Minute)
	released, err = f.queue.ReclaimExpired(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, released)

	events := f.notifier.Events(notify.TestResultReclaimed)
	require.Len(t, events, 1)
	require.Equal(t, task.TestResultID, events[0].TestResultID)

	queueStatus, err := f.queue.Status(f.ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, queueStatus.Pending)
	require.EqualValues(t, 0, queueStatus.Claimed)
	require.EqualValues(t, 1, queueStatus.UnfinishedSuites)

	// nobody claimed it again, late result is still accepted
	require.NoError(t, f.report(task, status.OK))
}

func TestPermissions(t *testing.T) {
	f := newFixture(t, map[string]*config.JudgePermissions{
		"any":        {},
		"restricted": {TestSuites: []uint{2}},
	})
	first, _ := f.submit("", 1)
	second, _ := f.submit("", 1)
	require.EqualValues(t, 2, second.ID)

	_, err := f.queue.GetNext(f.ctx, "stranger")
	require.ErrorIs(t, err, ErrJudgeNotPermitted)

	task := f.next("restricted")
	require.NotNil(t, task)
	require.Nil(t, f.next("restricted"))

	task = f.next("any")
	require.NotNil(t, task)
	testResult, err := f.storage.LoadTestResult(f.ctx, task.TestResultID)
	require.NoError(t, err)
	require.Equal(t, first.Mappings[0].TestID, testResult.TestID)
}

func TestResultsFinishSuite(t *testing.T) {
	f := newFixture(t, nil)
	_, suiteResult := f.submit("StatusReporter", 3)

	require.NoError(t, f.report(f.next("judge"), status.OK))
	require.NoError(t, f.report(f.next("judge"), status.ANS))

	loaded, err := f.storage.LoadTestSuiteResult(f.ctx, suiteResult.ID)
	require.NoError(t, err)
	require.True(t, loaded.Finished)
	require.Equal(t, status.ANS, loaded.Status)
	require.Equal(t, "Finished checking: ANS", loaded.Report)

	// the last test is not needed anymore
	require.Nil(t, f.next("judge"))
	require.Len(t, f.notifier.Events(notify.TestSuiteResultFinished), 1)
}

func TestResumeStalled(t *testing.T) {
	f := newFixture(t, nil)
	_, suiteResult := f.submit("StatusReporter", 1)

	// result is stored, but accumulating it never happened
	task := f.next("judge")
	result := models.OAMap{}
	result.SetStr(status.AttrStatus, status.OK)
	ok, err := f.storage.Complete(f.ctx, task.TestResultID, task.Attempt, result, f.clock.UnixMilli())
	require.NoError(t, err)
	require.True(t, ok)

	resumed, err := f.queue.ResumeStalled(f.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, resumed)

	loaded, err := f.storage.LoadTestSuiteResult(f.ctx, suiteResult.ID)
	require.NoError(t, err)
	require.True(t, loaded.Finished)
	require.Equal(t, status.OK, loaded.Status)
	require.Len(t, f.notifier.Events(notify.TestSuiteResultFinished), 1)

	resumed, err = f.queue.ResumeStalled(f.ctx)
	require.NoError(t, err)
	require.Zero(t, resumed)
}

func TestResultOfGoneJudgeIsAccumulated(t *testing.T) {
	f := newFixture(t, nil)
	_, suiteResult := f.submit("StatusReporter", 1)
	task := f.next("judge")

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	result := models.OAMap{}
	result.SetStr(status.AttrStatus, status.TLE)
	require.NoError(t, f.queue.SetResult(ctx, task.TestResultID, task.Attempt, result))

	loaded, err := f.storage.LoadTestSuiteResult(f.ctx, suiteResult.ID)
	require.NoError(t, err)
	require.True(t, loaded.Finished)
	require.Equal(t, status.TLE, loaded.Status)
}

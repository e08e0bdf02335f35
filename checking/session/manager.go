package session

import (
	"context"
	"errors"
	"fmt"
	"satori/checking/reporters"
	"satori/common/constants/status"
	"satori/common/db/models"
	"satori/common/metrics"
	"satori/common/notify"
	"satori/lib/logger"

	"github.com/puzpuzpuz/xsync/v3"
)

// Store is everything sessions need from the database
type Store interface {
	reporters.Store
	LoadTestSuiteResult(ctx context.Context, id uint) (*models.TestSuiteResult, error)
	LoadTestSuite(ctx context.Context, id uint) (*models.TestSuite, error)
	CompletedTestResults(ctx context.Context, submitID uint, testSuiteID uint) ([]*models.TestResult, error)
	PendingCount(ctx context.Context, submitID uint, testSuiteID uint) (int64, error)
}

// Manager feeds completed test results to reporters.
//
// Every test suite result has at most one session, calls for one session are serialized,
// different sessions work in parallel. Sessions live in memory only: a session lost on restart
// is rebuilt by replaying completed test results of the suite.
//
// Before a session decides anything it catches up with completed test results stored in the database,
// so results stored by a concurrent SetResult are never left out of the final report.
// Sessions of one test suite result must live in a single checking process.
type Manager struct {
	store           Store
	defaultReporter reporters.Kind
	metrics         *metrics.Collector
	notifier        notify.Notifier

	sessions *xsync.MapOf[uint, *session]
}

func NewManager(store Store, defaultReporter reporters.Kind, collector *metrics.Collector, notifier notify.Notifier) *Manager {
	return &Manager{
		store:           store,
		defaultReporter: defaultReporter,
		metrics:         collector,
		notifier:        notifier,
		sessions:        xsync.NewMapOf[uint, *session](),
	}
}

// ActiveSessions returns number of test suite results with live reporters
func (m *Manager) ActiveSessions() int {
	return m.sessions.Size()
}

// lock returns locked open session of the test suite result
func (m *Manager) lock(testSuiteResultID uint) *session {
	for {
		s, _ := m.sessions.LoadOrCompute(testSuiteResultID, newSession)
		s.mutex.Lock()
		if !s.closed {
			return s
		}
		// session was finalized while we were waiting, take a new one
		s.mutex.Unlock()
	}
}

// unlock releases session and publishes events collected under the lock
func (m *Manager) unlock(ctx context.Context, s *session) {
	events := s.outbox
	s.outbox = nil
	s.mutex.Unlock()
	for _, event := range events {
		m.notifier.Publish(ctx, event)
	}
}

// Accumulate passes completed test result to the reporter of the test suite result.
// Results of finished test suite results are ignored
func (m *Manager) Accumulate(ctx context.Context, testSuiteResultID uint, testResult *models.TestResult) error {
	s := m.lock(testSuiteResultID)
	defer m.unlock(ctx, s)

	if !s.started {
		finished, err := m.start(ctx, s, testSuiteResultID, false)
		if err != nil {
			m.close(s, testSuiteResultID)
			return err
		}
		if finished {
			m.close(s, testSuiteResultID)
			logger.Trace("Ignoring test result %v for finished test suite result %v", testResult.ID, testSuiteResultID)
			return nil
		}
	}

	// stored results go first, so that reporters see them in order of completion
	if err := m.catchUp(ctx, s, testSuiteResultID); err != nil {
		m.close(s, testSuiteResultID)
		return err
	}
	if err := s.accumulate(ctx, testResult); err != nil {
		m.close(s, testSuiteResultID)
		return fmt.Errorf("can't accumulate test result %v into test suite result %v: %w", testResult.ID, testSuiteResultID, err)
	}
	return m.finalizeIfDone(ctx, s, testSuiteResultID)
}

// Sync accumulates stored test results which were not accumulated yet and finalizes
// the test suite result if nothing is left to check. Finished test suite results are left as is
func (m *Manager) Sync(ctx context.Context, testSuiteResultID uint) error {
	s := m.lock(testSuiteResultID)
	defer m.unlock(ctx, s)

	if !s.started {
		finished, err := m.start(ctx, s, testSuiteResultID, false)
		if err != nil || finished {
			m.close(s, testSuiteResultID)
			return err
		}
	} else if err := m.catchUp(ctx, s, testSuiteResultID); err != nil {
		m.close(s, testSuiteResultID)
		return err
	}
	return m.finalizeIfDone(ctx, s, testSuiteResultID)
}

// Finalize forces final report of the test suite result, even if some tests are still pending.
// Finished test suite results are reported again, so that changed overrides are applied
func (m *Manager) Finalize(ctx context.Context, testSuiteResultID uint) (*models.TestSuiteResult, error) {
	s := m.lock(testSuiteResultID)
	defer m.unlock(ctx, s)

	if _, err := m.start(ctx, s, testSuiteResultID, true); err != nil {
		m.close(s, testSuiteResultID)
		return nil, err
	}
	if err := m.finalize(ctx, s, testSuiteResultID); err != nil {
		return nil, err
	}
	return s.result, nil
}

// start loads test suite result, creates reporter and replays already completed test results.
// Returns true if the test suite result is finished and force is not set
func (m *Manager) start(ctx context.Context, s *session, testSuiteResultID uint, force bool) (bool, error) {
	result, err := m.store.LoadTestSuiteResult(ctx, testSuiteResultID)
	if err != nil {
		return false, err
	}
	if result.Finished && !force {
		return true, nil
	}
	suite, err := m.store.LoadTestSuite(ctx, result.TestSuiteID)
	if err != nil {
		return false, err
	}

	kind := m.defaultReporter
	if suite.Reporter != "" {
		kind, err = reporters.ParseKind(suite.Reporter)
		if err != nil {
			return false, m.failUnknownReporter(ctx, s, result, suite.Reporter, err)
		}
	}
	reporter, err := reporters.New(kind, result, m.store)
	if err != nil {
		return false, m.failUnknownReporter(ctx, s, result, kind.String(), err)
	}

	if !s.started {
		m.metrics.CheckingActiveSessions.Inc()
	}
	s.started = true
	s.kind = kind
	s.result = result
	s.reporter = reporter
	clear(s.accumulated)

	result.Started = true
	if err = reporter.Init(ctx); err != nil {
		return false, fmt.Errorf("can't init reporter of test suite result %v: %w", testSuiteResultID, err)
	}

	if err = m.catchUp(ctx, s, testSuiteResultID); err != nil {
		return false, err
	}
	logger.Trace("Started session for test suite result %v with %v, replayed %v test results", testSuiteResultID, kind, len(s.accumulated))
	return false, nil
}

// catchUp accumulates completed test results of the suite in order of completion, skipping already accumulated ones
func (m *Manager) catchUp(ctx context.Context, s *session, testSuiteResultID uint) error {
	completed, err := m.store.CompletedTestResults(ctx, s.result.SubmitID, s.result.TestSuiteID)
	if err != nil {
		return err
	}
	for _, testResult := range completed {
		if err = s.accumulate(ctx, testResult); err != nil {
			return fmt.Errorf("can't replay test result %v into test suite result %v: %w", testResult.ID, testSuiteResultID, err)
		}
	}
	return nil
}

func (m *Manager) finalizeIfDone(ctx context.Context, s *session, testSuiteResultID uint) error {
	if s.reporter.Status() {
		pending, err := m.store.PendingCount(ctx, s.result.SubmitID, s.result.TestSuiteID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return nil
		}
	}
	return m.finalize(ctx, s, testSuiteResultID)
}

func (m *Manager) finalize(ctx context.Context, s *session, testSuiteResultID uint) error {
	if err := s.reporter.Deinit(ctx); err != nil {
		m.close(s, testSuiteResultID)
		return fmt.Errorf("can't deinit reporter of test suite result %v: %w", testSuiteResultID, err)
	}
	s.result.Started = true
	s.result.Finished = true
	err := m.store.SaveTestSuiteResult(ctx, s.result)
	m.close(s, testSuiteResultID)
	if err != nil {
		return err
	}

	logger.Info("Test suite result %v of submit %v finished with status %v", testSuiteResultID, s.result.SubmitID, s.result.Status)
	m.metrics.SuiteFinished(s.kind.String())
	s.outbox = append(s.outbox, finishedEvent(s.result))
	return nil
}

// failUnknownReporter finishes test suite result with internal error, so it is never retried
func (m *Manager) failUnknownReporter(ctx context.Context, s *session, result *models.TestSuiteResult, name string, cause error) error {
	result.Started = true
	result.Finished = true
	result.Status = status.INT
	result.Report = "unknown reporter: " + name
	result.OA.SetStr(status.AttrStatus, status.INT)
	if err := m.store.SaveTestSuiteResult(ctx, result); err != nil {
		return errors.Join(cause, err)
	}
	logger.Warn("Test suite result %v uses unknown reporter %q", result.ID, name)
	s.outbox = append(s.outbox, finishedEvent(result))
	return cause
}

func finishedEvent(result *models.TestSuiteResult) *notify.Event {
	event := notify.NewEvent(notify.TestSuiteResultFinished)
	event.SubmitID = result.SubmitID
	event.TestSuiteResultID = result.ID
	event.Status = result.Status
	return event
}

// close drops session, it must be locked
func (m *Manager) close(s *session, testSuiteResultID uint) {
	if s.closed {
		return
	}
	s.closed = true
	if s.started {
		m.metrics.CheckingActiveSessions.Dec()
	}
	m.sessions.Compute(testSuiteResultID, func(current *session, loaded bool) (*session, bool) {
		// delete only our own session
		return current, !loaded || current == s
	})
}

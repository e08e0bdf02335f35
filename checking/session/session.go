package session

import (
	"context"
	"satori/checking/reporters"
	"satori/common/db/models"
	"satori/common/notify"
	"sync"
)

// session keeps reporter of one test suite result between test results.
// All fields are guarded by mutex
type session struct {
	mutex  sync.Mutex
	closed bool

	started     bool
	kind        reporters.Kind
	result      *models.TestSuiteResult
	reporter    reporters.Reporter
	accumulated map[uint]struct{}

	// outbox is published after the session is unlocked
	outbox []*notify.Event
}

func newSession() *session {
	return &session{
		accumulated: make(map[uint]struct{}),
	}
}

func (s *session) accumulate(ctx context.Context, testResult *models.TestResult) error {
	if _, ok := s.accumulated[testResult.ID]; ok {
		return nil
	}
	if err := s.reporter.Accumulate(ctx, testResult); err != nil {
		return err
	}
	s.accumulated[testResult.ID] = struct{}{}
	return nil
}

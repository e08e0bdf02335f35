package queue

import (
	"context"
	"fmt"
	"satori/checking/session"
	"satori/checking/storage"
	"satori/common"
	"satori/common/connectors/judgeconn"
	"satori/common/db/models"
	"satori/common/metrics"
	"satori/common/notify"
	"satori/lib/logger"
	"sync"
	"time"
)

// claimCandidates bounds number of test results tried by one GetNext
const claimCandidates = 16

type Queue struct {
	ts *common.TestingSystem

	storage     *storage.Storage
	sessions    *session.Manager
	permissions Permissions

	now func() time.Time

	// claimMutex makes this process a single writer of claims, other processes are fenced by attempt
	claimMutex sync.Mutex
}

func (q *Queue) GetNext(ctx context.Context, judge string) (*judgeconn.Task, error) {
	suiteIDs, allSuites, err := q.permissions.AllowedSuites(ctx, judge)
	if err != nil {
		return nil, err
	}

	q.claimMutex.Lock()
	defer q.claimMutex.Unlock()

	now := q.now()
	candidates, err := q.storage.ClaimCandidates(ctx, now.UnixMilli(), suiteIDs, allSuites, claimCandidates)
	if err != nil {
		return nil, err
	}
	deadline := now.Add(q.ts.Config.Checking.LeaseTimeout).UnixMilli()
	for _, candidate := range candidates {
		ok, err := q.storage.Claim(ctx, candidate, judge, deadline)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// if loading fails, the claim simply expires
		testData, submitData, err := q.storage.LoadTaskData(ctx, candidate)
		if err != nil {
			return nil, err
		}
		task := &judgeconn.Task{
			TestResultID: candidate.ID,
			Attempt:      candidate.Attempt,
			TestData:     testData,
			SubmitData:   submitData,
		}
		q.ts.Metrics.Claimed(judge)
		logger.Trace("Judge %s claimed %v", judge, task)
		return task, nil
	}

	q.ts.Metrics.EmptyPoll(judge)
	return nil, nil
}

func (q *Queue) SetResult(ctx context.Context, testResultID uint, attempt uint64, result models.OAMap) error {
	// judge going away must not leave the result stored but not accumulated
	ctx = context.WithoutCancel(ctx)
	ok, err := q.storage.Complete(ctx, testResultID, attempt, result, q.now().UnixMilli())
	if err != nil {
		return err
	}
	if !ok {
		return q.rejectResult(ctx, testResultID, attempt)
	}
	q.ts.Metrics.Result(metrics.ResultAccepted)

	testResult, err := q.storage.LoadTestResult(ctx, testResultID)
	if err != nil {
		return err
	}
	owners, err := q.storage.OwningTestSuiteResults(ctx, testResult)
	if err != nil {
		return err
	}
	// failures below must not make judge resend the result, ResumeStalled picks such suites up
	for _, testSuiteResultID := range owners {
		if err = q.sessions.Accumulate(ctx, testSuiteResultID, testResult); err != nil {
			logger.Error("Can't accumulate test result %d into test suite result %d, error: %v", testResultID, testSuiteResultID, err)
		}
	}
	return nil
}

func (q *Queue) rejectResult(ctx context.Context, testResultID uint, attempt uint64) error {
	testResult, err := q.storage.LoadTestResult(ctx, testResultID)
	if err != nil {
		return err
	}
	if !testResult.Pending {
		q.ts.Metrics.Result(metrics.ResultDuplicate)
		return fmt.Errorf("%w: test result %d", ErrAlreadyReported, testResultID)
	}
	q.ts.Metrics.Result(metrics.ResultStale)
	return fmt.Errorf("%w: test result %d, attempt %d, current attempt %d",
		ErrStaleClaim, testResultID, attempt, testResult.Attempt)
}

func (q *Queue) ReclaimExpired(ctx context.Context) (int, error) {
	q.claimMutex.Lock()
	released, err := q.storage.ReleaseExpired(ctx, q.now().UnixMilli())
	q.claimMutex.Unlock()

	for _, testResult := range released {
		logger.Warn("Claim of test result %d by judge %s expired", testResult.ID, testResult.ClaimedBy)
		q.ts.Metrics.CheckingReclaims.Inc()

		event := notify.NewEvent(notify.TestResultReclaimed)
		event.SubmitID = testResult.SubmitID
		event.TestResultID = testResult.ID
		q.ts.Notifier.Publish(ctx, event)
	}
	return len(released), err
}

func (q *Queue) ResumeStalled(ctx context.Context) (int, error) {
	stalled, err := q.storage.StalledTestSuiteResults(ctx)
	if err != nil {
		return 0, err
	}
	resumed := 0
	for _, testSuiteResultID := range stalled {
		if err = q.sessions.Sync(ctx, testSuiteResultID); err != nil {
			logger.Error("Can't resume test suite result %d, error: %v", testSuiteResultID, err)
			continue
		}
		logger.Warn("Resumed stalled test suite result %d", testSuiteResultID)
		resumed++
	}
	return resumed, nil
}

func (q *Queue) Status(ctx context.Context) (*judgeconn.QueueStatus, error) {
	counts, err := q.storage.QueueCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &judgeconn.QueueStatus{
		Pending:          counts.Pending,
		Claimed:          counts.Claimed,
		ActiveSessions:   q.sessions.ActiveSessions(),
		UnfinishedSuites: counts.UnfinishedSuites,
	}, nil
}

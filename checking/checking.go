package checking

import (
	"context"
	"errors"
	"satori/checking/queue"
	"satori/checking/reporters"
	"satori/checking/session"
	"satori/checking/storage"
	"satori/common"
	"satori/common/db/models"
	"satori/common/notify"
	"satori/judge"
	"satori/lib/logger"
	"time"
)

// local judges poll the queue in process, so polling may be frequent
const (
	localPollInterval    = 100 * time.Millisecond
	localMaxPollInterval = 2 * time.Second
)

type Checking struct {
	ts       *common.TestingSystem
	storage  *storage.Storage
	sessions *session.Manager
	queue    queue.IQueue
}

// SetupChecking registers checking handlers and background processes on ts
func SetupChecking(ts *common.TestingSystem) (*Checking, error) {
	if ts.Config.Checking == nil {
		return nil, errors.New("checking is not configured")
	}

	defaultReporter, err := reporters.ParseKind(ts.Config.Checking.DefaultReporter)
	if err != nil {
		logger.Panic("Can not set up checking, default reporter: %v", err)
	}

	c := &Checking{
		ts:      ts,
		storage: storage.NewStorage(ts.DB),
	}
	c.sessions = session.NewManager(c.storage, defaultReporter, ts.Metrics, ts.Notifier)
	c.queue = queue.NewQueue(ts, c.storage, c.sessions, queue.NewConfigPermissions(ts.Config.Checking))

	c.registerHandlers()
	ts.AddProcess(c.reclaimLoop)
	c.setupLocalJudges()

	return c, nil
}

func (c *Checking) reclaimLoop() {
	logger.Info("starting reclaim loop")

	t := time.Tick(c.ts.Config.Checking.ReclaimInterval)

	for {
		select {
		case <-c.ts.StopCtx.Done():
			logger.Info("stopping reclaim loop")
			return
		case <-t:
			released, err := c.queue.ReclaimExpired(c.ts.StopCtx)
			if err != nil {
				logger.Error("failed to reclaim expired claims, error: %v", err)
			} else if released > 0 {
				logger.Info("released %d expired claims", released)
			}
			if _, err = c.queue.ResumeStalled(c.ts.StopCtx); err != nil {
				logger.Error("failed to resume stalled test suite results, error: %v", err)
			}
		}
	}
}

func (c *Checking) setupLocalJudges() {
	for _, config := range c.ts.Config.Checking.LocalJudges {
		workers := judge.NewWorkers(
			config.Name,
			*config.Threads,
			c.queue,
			judge.NewCommandRunner(config.Command, ""),
			localPollInterval,
			localMaxPollInterval,
		)
		c.ts.AddProcess(func() {
			if err := judge.RunPool(c.ts.StopCtx, workers); err != nil {
				logger.Panic("Local judge %s failed: %v", config.Name, err)
			}
		})
		logger.Info("Local judge %s is set up with %d threads", config.Name, *config.Threads)
	}
}

// Submit creates submit for the test suites and publishes it to judges.
// Suites without tests are finalized at once
func (c *Checking) Submit(ctx context.Context, data models.OAMap, overrides models.OAMap, testSuiteIDs []uint) (*models.Submit, error) {
	submit, suiteResults, err := c.storage.CreateSubmit(ctx, data, overrides, testSuiteIDs)
	if err != nil {
		return nil, err
	}

	event := notify.NewEvent(notify.SubmitCreated)
	event.SubmitID = submit.ID
	c.ts.Notifier.Publish(ctx, event)

	for _, suiteResult := range suiteResults {
		tests, err := c.storage.TestCount(ctx, suiteResult.TestSuiteID)
		if err != nil {
			return nil, err
		}
		if tests > 0 {
			continue
		}
		if _, err = c.sessions.Finalize(ctx, suiteResult.ID); err != nil && !errors.Is(err, reporters.ErrUnknownReporter) {
			return nil, err
		}
	}
	return submit, nil
}

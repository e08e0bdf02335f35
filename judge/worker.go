package judge

import (
	"context"
	"satori/common/connectors/judgeconn"
	"satori/common/constants/status"
	"satori/common/db/models"
	"satori/lib/logger"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Dispatcher is a source of tasks. It is implemented by the check queue and by judgeconn.Connector
type Dispatcher interface {
	// GetNext returns nil task if there is nothing to check
	GetNext(ctx context.Context, judge string) (*judgeconn.Task, error)
	SetResult(ctx context.Context, testResultID uint, attempt uint64, result models.OAMap) error
}

// Runner checks a single task and returns its result attributes
type Runner interface {
	Run(ctx context.Context, task *judgeconn.Task) (models.OAMap, error)
}

type Worker struct {
	Name       string
	dispatcher Dispatcher
	runner     Runner

	pollInterval    time.Duration
	maxPollInterval time.Duration
}

func NewWorker(name string, dispatcher Dispatcher, runner Runner, pollInterval time.Duration, maxPollInterval time.Duration) *Worker {
	return &Worker{
		Name:            name,
		dispatcher:      dispatcher,
		runner:          runner,
		pollInterval:    pollInterval,
		maxPollInterval: maxPollInterval,
	}
}

// Run checks tasks until ctx is done. When there is nothing to check, polling slows down exponentially
func (w *Worker) Run(ctx context.Context) error {
	idle := backoff.NewExponentialBackOff()
	idle.InitialInterval = w.pollInterval
	idle.MaxInterval = w.maxPollInterval

	logger.Info("Judge %s started", w.Name)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Judge %s stopped", w.Name)
			return nil
		default:
		}

		processed, err := w.processNext(ctx)
		if err != nil {
			logger.Warn("Judge %s: %v", w.Name, err)
		}
		if processed {
			idle.Reset()
			continue
		}

		timer := time.NewTimer(idle.NextBackOff())
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

// processNext returns true if some task was taken
func (w *Worker) processNext(ctx context.Context) (bool, error) {
	task, err := w.dispatcher.GetNext(ctx, w.Name)
	if err != nil || task == nil {
		return false, err
	}
	logger.Trace("Judge %s got task %v", w.Name, task)

	result, err := w.runner.Run(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			// the claim will expire and the task will be given to someone else
			return true, err
		}
		logger.Warn("Judge %s failed to check %v, error: %v", w.Name, task, err)
		result = models.OAMap{}
		result.SetStr(status.AttrStatus, status.INT)
		result.SetStr(status.AttrReport, err.Error())
	}

	if err = w.dispatcher.SetResult(ctx, task.TestResultID, task.Attempt, result); err != nil {
		return true, err
	}
	logger.Trace("Judge %s reported %v", w.Name, task)
	return true, nil
}

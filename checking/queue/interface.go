package queue

import (
	"context"
	"errors"
	"satori/checking/session"
	"satori/checking/storage"
	"satori/common"
	"satori/common/connectors/judgeconn"
	"satori/common/db/models"
	"time"
)

var (
	ErrTestResultNotFound = storage.ErrTestResultNotFound
	ErrAlreadyReported    = errors.New("test result is already reported")
	ErrStaleClaim         = errors.New("test result was claimed again, result of old attempt is rejected")
)

/*
IQueue gives pending test results to judges and takes their results back.

Claims live in the database only: a test result is claimed with compare and swap
on its attempt counter, and the attempt works as a fencing token for results.
Claims expire after a lease timeout.

Reporters of test suite results live in memory of the checking process, so one database
is served by a single checking process. Judges may run anywhere.
*/
type IQueue interface {
	// GetNext claims next pending test result for the judge, returns nil if there is nothing to check
	GetNext(ctx context.Context, judge string) (*judgeconn.Task, error)

	// SetResult stores result of the claimed attempt and passes it to reporters
	SetResult(ctx context.Context, testResultID uint, attempt uint64, result models.OAMap) error

	// ReclaimExpired releases claims with expired lease, returns number of released claims
	ReclaimExpired(ctx context.Context) (int, error)

	// ResumeStalled finishes unfinished test suite results which have nothing pending,
	// e.g. when accumulation of the last result failed. Returns number of resumed test suite results
	ResumeStalled(ctx context.Context) (int, error)

	Status(ctx context.Context) (*judgeconn.QueueStatus, error)
}

func NewQueue(
	ts *common.TestingSystem,
	storage *storage.Storage,
	sessions *session.Manager,
	permissions Permissions,
) IQueue {
	return &Queue{
		ts:          ts,
		storage:     storage,
		sessions:    sessions,
		permissions: permissions,
		now:         time.Now,
	}
}

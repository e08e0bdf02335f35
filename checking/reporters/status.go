package reporters

import (
	"context"
	"fmt"
	"satori/common/constants/status"
	"satori/common/db/models"
	"satori/lib/logger"
)

// StatusReporter reports the first non-OK status among the tests
type StatusReporter struct {
	reporterBase
	status string
}

func newStatusReporter(result *models.TestSuiteResult, store Store) Reporter {
	return &StatusReporter{reporterBase: reporterBase{result: result, store: store}}
}

func (r *StatusReporter) Init(ctx context.Context) error {
	r.status = status.OK
	return r.save(ctx, status.QUE, "")
}

func (r *StatusReporter) Accumulate(_ context.Context, testResult *models.TestResult) error {
	testStatus := testStatus(testResult)
	logger.Trace("status reporter %d: %s += %s", r.result.ID, r.status, testStatus)
	if r.status == status.OK {
		r.status = testStatus
	}
	return nil
}

func (r *StatusReporter) Status() bool {
	return r.status == status.OK
}

func (r *StatusReporter) Deinit(ctx context.Context) error {
	logger.Trace("status reporter %d: %s", r.result.ID, r.status)
	return r.finish(ctx, r.status, fmt.Sprintf("Finished checking: %s", r.status))
}

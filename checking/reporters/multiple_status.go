package reporters

import (
	"context"
	"fmt"
	"maps"
	"satori/common/constants/status"
	"satori/common/db/models"
	"satori/lib/logger"
	"slices"
	"strings"
)

// MultipleStatusReporter works like StatusReporter, but lists statuses of all tests in the report
// and never stops checking after the first failure
type MultipleStatusReporter struct {
	reporterBase
	status   string
	statuses map[int]string // test order -> status
}

func newMultipleStatusReporter(result *models.TestSuiteResult, store Store) Reporter {
	return &MultipleStatusReporter{reporterBase: reporterBase{result: result, store: store}}
}

func (r *MultipleStatusReporter) Init(ctx context.Context) error {
	r.status = status.OK
	r.statuses = make(map[int]string)
	return r.save(ctx, status.QUE, "")
}

func (r *MultipleStatusReporter) Accumulate(ctx context.Context, testResult *models.TestResult) error {
	order, err := r.store.TestOrder(ctx, r.result.TestSuiteID, testResult.TestID)
	if err != nil {
		return err
	}
	testStatus := testStatus(testResult)
	logger.Trace("multiple status reporter %d: %s += %s", r.result.ID, r.status, testStatus)
	r.statuses[order] = testStatus
	if r.status == status.OK {
		r.status = testStatus
	}
	return nil
}

func (r *MultipleStatusReporter) Status() bool {
	return true
}

func (r *MultipleStatusReporter) Deinit(ctx context.Context) error {
	logger.Trace("multiple status reporter %d: %s", r.result.ID, r.status)
	orders := slices.Sorted(maps.Keys(r.statuses))
	parts := make([]string, 0, len(orders))
	for _, order := range orders {
		parts = append(parts, fmt.Sprintf("%d %s", order, r.statuses[order]))
	}
	report := fmt.Sprintf("Finished checking: %s (%s)", r.status, strings.Join(parts, ", "))
	return r.finish(ctx, r.status, report)
}

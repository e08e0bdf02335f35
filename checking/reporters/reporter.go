package reporters

import (
	"context"
	"satori/common/constants/status"
	"satori/common/db/models"
)

// Reporter turns results of single tests into the result of a test suite.
//
// Calls for one test suite result must be serialized by the caller:
// Init, then Accumulate for every completed test result, then Deinit.
type Reporter interface {
	// Init resets reporter state and persists initial status
	Init(ctx context.Context) error

	// Accumulate is called once per completed test result, in any order
	Accumulate(ctx context.Context, testResult *models.TestResult) error

	// Status returns false if there is no reason to check remaining tests
	Status() bool

	// Deinit persists final status and report, applying submit overrides
	Deinit(ctx context.Context) error
}

// Store gives reporters access to persisted data they need
type Store interface {
	SaveTestSuiteResult(ctx context.Context, result *models.TestSuiteResult) error
	TestOrder(ctx context.Context, testSuiteID uint, testID uint) (int, error)
	SubmitOverrides(ctx context.Context, submitID uint) (models.OAMap, error)
}

type reporterBase struct {
	result *models.TestSuiteResult
	store  Store
}

func (r *reporterBase) save(ctx context.Context, resultStatus string, report string) error {
	r.result.Status = resultStatus
	r.result.Report = report
	r.result.OA.SetStr(status.AttrStatus, resultStatus)
	return r.store.SaveTestSuiteResult(ctx, r.result)
}

// finish resolves overrides and saves final status and report
func (r *reporterBase) finish(ctx context.Context, resultStatus string, report string) error {
	overrides, err := r.store.SubmitOverrides(ctx, r.result.SubmitID)
	if err != nil {
		return err
	}
	resultStatus, report = ResolveOverrides(overrides, resultStatus, report)
	return r.save(ctx, resultStatus, report)
}

// testStatus returns status reported by judge, missing status is an internal error
func testStatus(testResult *models.TestResult) string {
	s, ok := testResult.OA.GetStr(status.AttrStatus)
	if !ok || s == "" {
		return status.INT
	}
	return s
}

package reporters

import (
	"cmp"
	"context"
	"fmt"
	"satori/common/constants/status"
	"satori/common/db/models"
	"slices"
	"strings"
)

type reportLine struct {
	name   string
	result string
}

// PointsReporter counts passed tests, partial report is saved after every test
type PointsReporter struct {
	reporterBase
	checked int
	passed  int
	lines   []reportLine
}

func newPointsReporter(result *models.TestSuiteResult, store Store) Reporter {
	return &PointsReporter{reporterBase: reporterBase{result: result, store: store}}
}

func (r *PointsReporter) Init(ctx context.Context) error {
	r.checked = 0
	r.passed = 0
	r.lines = nil
	return r.save(ctx, status.QUE, "")
}

func (r *PointsReporter) Accumulate(ctx context.Context, testResult *models.TestResult) error {
	testStatus := testStatus(testResult)
	r.checked++
	if testStatus == status.OK {
		r.passed++
	}

	name := testResult.Test.Name
	if name == "" {
		name = fmt.Sprint(testResult.TestID)
	}
	line := reportLine{name: name, result: testStatus}
	// lines stay sorted by name, equal names keep arrival order
	pos, _ := slices.BinarySearchFunc(r.lines, line, func(a, b reportLine) int {
		if c := cmp.Compare(a.name, b.name); c != 0 {
			return c
		}
		return -1
	})
	r.lines = slices.Insert(r.lines, pos, line)

	r.result.Report = r.report()
	return r.store.SaveTestSuiteResult(ctx, r.result)
}

func (r *PointsReporter) report() string {
	tokens := make([]string, 0, len(r.lines))
	for _, line := range r.lines {
		tokens = append(tokens, "["+line.name+":"+line.result+"]")
	}
	return strings.Join(tokens, " ")
}

func (r *PointsReporter) status() string {
	return fmt.Sprintf("%d / %d", r.passed, r.checked)
}

func (r *PointsReporter) Status() bool {
	return true
}

func (r *PointsReporter) Deinit(ctx context.Context) error {
	r.result.OA.SetInt(status.AttrChecked, r.checked)
	r.result.OA.SetInt(status.AttrPassed, r.passed)
	return r.finish(ctx, r.status(), r.report())
}

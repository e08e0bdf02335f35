package reporters

import (
	"context"
	"fmt"
	"satori/common/constants/status"
	"satori/common/db/models"
)

type fakeStore struct {
	orders    map[uint]int // test id -> order
	overrides models.OAMap
	saves     int
}

func (s *fakeStore) SaveTestSuiteResult(_ context.Context, _ *models.TestSuiteResult) error {
	s.saves++
	return nil
}

func (s *fakeStore) TestOrder(_ context.Context, _ uint, testID uint) (int, error) {
	order, ok := s.orders[testID]
	if !ok {
		return 0, fmt.Errorf("test %d is not mapped", testID)
	}
	return order, nil
}

func (s *fakeStore) SubmitOverrides(context.Context, uint) (models.OAMap, error) {
	return s.overrides, nil
}

func fixtureResult() *models.TestSuiteResult {
	result := &models.TestSuiteResult{SubmitID: 1, TestSuiteID: 1}
	result.ID = 1
	return result
}

func fixtureTestResult(testID uint, name string, testStatus string) *models.TestResult {
	testResult := &models.TestResult{TestID: testID}
	testResult.Test.ID = testID
	testResult.Test.Name = name
	if testStatus != "" {
		testResult.OA.SetStr(status.AttrStatus, testStatus)
	}
	return testResult
}

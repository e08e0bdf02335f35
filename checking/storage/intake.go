package storage

import (
	"context"
	"fmt"
	"satori/checking/reporters"
	"satori/common/db/models"
	"slices"

	"gorm.io/gorm"
)

// CreateTestSuite creates tests and a suite containing them in the given order.
// Empty reporter means the default one
func (s *Storage) CreateTestSuite(ctx context.Context, name string, reporter string, tests []*models.Test) (*models.TestSuite, error) {
	if reporter != "" {
		if _, err := reporters.ParseKind(reporter); err != nil {
			return nil, err
		}
	}

	suite := &models.TestSuite{Name: name, Reporter: reporter}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(suite).Error; err != nil {
			return err
		}
		for i, test := range tests {
			if err := tx.Create(test).Error; err != nil {
				return err
			}
			mapping := models.TestMapping{
				TestSuiteID: suite.ID,
				TestID:      test.ID,
				Order:       i + 1,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
			suite.Mappings = append(suite.Mappings, mapping)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suite, nil
}

// CreateSubmit creates submit with one pending test result per distinct test of the suites
// and one test suite result per suite
func (s *Storage) CreateSubmit(
	ctx context.Context,
	data models.OAMap,
	overrides models.OAMap,
	suiteIDs []uint,
) (*models.Submit, []*models.TestSuiteResult, error) {
	suiteIDs = slices.Clone(suiteIDs)
	slices.Sort(suiteIDs)
	suiteIDs = slices.Compact(suiteIDs)

	submit := &models.Submit{Data: data, Overrides: overrides}
	var suiteResults []*models.TestSuiteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&models.TestSuite{}).Where("id IN ?", suiteIDs).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(suiteIDs) {
			return fmt.Errorf("%w: some of %v", ErrTestSuiteNotFound, suiteIDs)
		}

		if err := tx.Create(submit).Error; err != nil {
			return err
		}

		var testIDs []uint
		err := tx.Model(&models.TestMapping{}).
			Where("test_suite_id IN ?", suiteIDs).
			Distinct("test_id").
			Order("test_id").
			Pluck("test_id", &testIDs).Error
		if err != nil {
			return err
		}
		for _, testID := range testIDs {
			testResult := &models.TestResult{
				SubmitID: submit.ID,
				TestID:   testID,
				Pending:  true,
			}
			if err = tx.Create(testResult).Error; err != nil {
				return err
			}
		}

		for _, suiteID := range suiteIDs {
			suiteResult := &models.TestSuiteResult{
				SubmitID:    submit.ID,
				TestSuiteID: suiteID,
			}
			if err = tx.Create(suiteResult).Error; err != nil {
				return err
			}
			suiteResults = append(suiteResults, suiteResult)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return submit, suiteResults, nil
}

// TestCount returns number of tests in the suite
func (s *Storage) TestCount(ctx context.Context, testSuiteID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.TestMapping{}).
		Where("test_suite_id = ?", testSuiteID).
		Count(&count).Error
	return count, err
}

package storage

import (
	"context"
	"errors"
	"satori/common/db/models"

	"gorm.io/gorm"
)

var (
	ErrTestSuiteNotFound       = errors.New("test suite not found")
	ErrTestSuiteResultNotFound = errors.New("test suite result not found")
	ErrSubmitNotFound          = errors.New("submit not found")
	ErrTestResultNotFound      = errors.New("test result not found")
	ErrTestNotInSuite          = errors.New("test is not in the test suite")
)

// Storage contains all database queries used by checking.
// It also implements reporters.Store
type Storage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func (s *Storage) SaveTestSuiteResult(ctx context.Context, result *models.TestSuiteResult) error {
	return s.db.WithContext(ctx).Save(result).Error
}

func (s *Storage) LoadTestSuiteResult(ctx context.Context, id uint) (*models.TestSuiteResult, error) {
	result := new(models.TestSuiteResult)
	if err := s.db.WithContext(ctx).First(result, id).Error; err != nil {
		return nil, notFound(err, ErrTestSuiteResultNotFound)
	}
	return result, nil
}

func (s *Storage) LoadTestSuite(ctx context.Context, id uint) (*models.TestSuite, error) {
	suite := new(models.TestSuite)
	if err := s.db.WithContext(ctx).First(suite, id).Error; err != nil {
		return nil, notFound(err, ErrTestSuiteNotFound)
	}
	return suite, nil
}

func (s *Storage) TestOrder(ctx context.Context, testSuiteID uint, testID uint) (int, error) {
	mapping := new(models.TestMapping)
	err := s.db.WithContext(ctx).
		Where("test_suite_id = ? AND test_id = ?", testSuiteID, testID).
		Take(mapping).Error
	if err != nil {
		return 0, notFound(err, ErrTestNotInSuite)
	}
	return mapping.Order, nil
}

func (s *Storage) SubmitOverrides(ctx context.Context, submitID uint) (models.OAMap, error) {
	submit := new(models.Submit)
	if err := s.db.WithContext(ctx).Select("id", "overrides").First(submit, submitID).Error; err != nil {
		return nil, notFound(err, ErrSubmitNotFound)
	}
	return submit.Overrides, nil
}

func (s *Storage) SetSubmitOverrides(ctx context.Context, submitID uint, overrides models.OAMap) error {
	res := s.db.WithContext(ctx).
		Model(&models.Submit{}).
		Where("id = ?", submitID).
		Update("overrides", overrides)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubmitNotFound
	}
	return nil
}

// LoadTaskData returns test and submit data of the test result
func (s *Storage) LoadTaskData(ctx context.Context, testResult *models.TestResult) (testData models.OAMap, submitData models.OAMap, err error) {
	test := new(models.Test)
	if err = s.db.WithContext(ctx).First(test, testResult.TestID).Error; err != nil {
		return nil, nil, err
	}
	submit := new(models.Submit)
	if err = s.db.WithContext(ctx).First(submit, testResult.SubmitID).Error; err != nil {
		return nil, nil, notFound(err, ErrSubmitNotFound)
	}
	return test.Data, submit.Data, nil
}

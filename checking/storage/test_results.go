package storage

import (
	"context"
	"satori/common/db/models"

	"gorm.io/gorm"
)

// unfinishedSuiteResults builds subquery matching test results which are still needed by some unfinished test suite result
func (s *Storage) unfinishedSuiteResults(suiteIDs []uint, allSuites bool) *gorm.DB {
	query := s.db.Table("test_suite_results AS tsr").
		Select("1").
		Joins("JOIN test_mappings AS tm ON tm.test_suite_id = tsr.test_suite_id AND tm.deleted_at IS NULL").
		Where("tsr.submit_id = test_results.submit_id AND tm.test_id = test_results.test_id").
		Where("tsr.finished = ? AND tsr.deleted_at IS NULL", false)
	if !allSuites {
		query = query.Where("tsr.test_suite_id IN ?", suiteIDs)
	}
	return query
}

// ClaimCandidates returns pending test results which are not claimed (or their claim has expired) in queue order
func (s *Storage) ClaimCandidates(ctx context.Context, now int64, suiteIDs []uint, allSuites bool, limit int) ([]*models.TestResult, error) {
	var candidates []*models.TestResult
	err := s.db.WithContext(ctx).
		Where("pending = ?", true).
		Where("(claimed_by = ? OR lease_deadline < ?)", "", now).
		Where("EXISTS (?)", s.unfinishedSuiteResults(suiteIDs, allSuites)).
		Order("id").
		Limit(limit).
		Find(&candidates).Error
	return candidates, err
}

// Claim marks test result claimed by judge if nobody has claimed it since attempt was read
func (s *Storage) Claim(ctx context.Context, testResult *models.TestResult, judge string, deadline int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TestResult{}).
		Where("id = ? AND pending = ? AND attempt = ?", testResult.ID, true, testResult.Attempt).
		Updates(map[string]any{
			"attempt":        gorm.Expr("attempt + 1"),
			"claimed_by":     judge,
			"lease_deadline": deadline,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 1 {
		return false, nil
	}
	testResult.Attempt++
	testResult.ClaimedBy = judge
	testResult.LeaseDeadline = deadline
	return true, nil
}

// Complete saves judge result if test result is still pending and attempt matches
func (s *Storage) Complete(ctx context.Context, id uint, attempt uint64, result models.OAMap, now int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TestResult{}).
		Where("id = ? AND pending = ? AND attempt = ?", id, true, attempt).
		Updates(map[string]any{
			"pending":        false,
			"oa":             result,
			"claimed_by":     "",
			"lease_deadline": 0,
			"completed_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseExpired removes expired claims and returns released test results
func (s *Storage) ReleaseExpired(ctx context.Context, now int64) ([]*models.TestResult, error) {
	var expired []*models.TestResult
	err := s.db.WithContext(ctx).
		Where("pending = ? AND claimed_by <> ? AND lease_deadline < ?", true, "", now).
		Order("id").
		Find(&expired).Error
	if err != nil {
		return nil, err
	}

	released := make([]*models.TestResult, 0, len(expired))
	for _, testResult := range expired {
		res := s.db.WithContext(ctx).
			Model(&models.TestResult{}).
			Where("id = ? AND pending = ? AND attempt = ? AND lease_deadline < ?", testResult.ID, true, testResult.Attempt, now).
			Updates(map[string]any{
				"claimed_by":     "",
				"lease_deadline": 0,
			})
		if res.Error != nil {
			return released, res.Error
		}
		if res.RowsAffected == 1 {
			released = append(released, testResult)
		}
	}
	return released, nil
}

func (s *Storage) LoadTestResult(ctx context.Context, id uint) (*models.TestResult, error) {
	testResult := new(models.TestResult)
	if err := s.db.WithContext(ctx).Preload("Test").First(testResult, id).Error; err != nil {
		return nil, notFound(err, ErrTestResultNotFound)
	}
	return testResult, nil
}

// OwningTestSuiteResults returns ids of unfinished test suite results which include the test result
func (s *Storage) OwningTestSuiteResults(ctx context.Context, testResult *models.TestResult) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.TestSuiteResult{}).
		Joins("JOIN test_mappings AS tm ON tm.test_suite_id = test_suite_results.test_suite_id AND tm.deleted_at IS NULL").
		Where("test_suite_results.submit_id = ? AND tm.test_id = ?", testResult.SubmitID, testResult.TestID).
		Where("test_suite_results.finished = ?", false).
		Order("test_suite_results.id").
		Pluck("test_suite_results.id", &ids).Error
	return ids, err
}

// CompletedTestResults returns results of the suite which are already reported, in order of completion
func (s *Storage) CompletedTestResults(ctx context.Context, submitID uint, testSuiteID uint) ([]*models.TestResult, error) {
	var testResults []*models.TestResult
	err := s.db.WithContext(ctx).
		Preload("Test").
		Joins("JOIN test_mappings AS tm ON tm.test_id = test_results.test_id AND tm.deleted_at IS NULL").
		Where("tm.test_suite_id = ? AND test_results.submit_id = ?", testSuiteID, submitID).
		Where("test_results.pending = ?", false).
		Order("test_results.completed_at, test_results.id").
		Find(&testResults).Error
	return testResults, err
}

// PendingCount returns number of test results of the suite which are not reported yet
func (s *Storage) PendingCount(ctx context.Context, submitID uint, testSuiteID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.TestResult{}).
		Joins("JOIN test_mappings AS tm ON tm.test_id = test_results.test_id AND tm.deleted_at IS NULL").
		Where("tm.test_suite_id = ? AND test_results.submit_id = ?", testSuiteID, submitID).
		Where("test_results.pending = ?", true).
		Count(&count).Error
	return count, err
}

// StalledTestSuiteResults returns ids of unfinished test suite results which have no pending test results left
func (s *Storage) StalledTestSuiteResults(ctx context.Context) ([]uint, error) {
	pending := s.db.Model(&models.TestResult{}).
		Select("1").
		Joins("JOIN test_mappings AS tm ON tm.test_id = test_results.test_id AND tm.deleted_at IS NULL").
		Where("tm.test_suite_id = test_suite_results.test_suite_id AND test_results.submit_id = test_suite_results.submit_id").
		Where("test_results.pending = ?", true)
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.TestSuiteResult{}).
		Where("finished = ?", false).
		Where("NOT EXISTS (?)", pending).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

type QueueCounts struct {
	Pending          int64
	Claimed          int64
	UnfinishedSuites int64
}

func (s *Storage) QueueCounts(ctx context.Context) (*QueueCounts, error) {
	counts := new(QueueCounts)
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.TestResult{}).Where("pending = ?", true).Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	err := db.Model(&models.TestResult{}).Where("pending = ? AND claimed_by <> ?", true, "").Count(&counts.Claimed).Error
	if err != nil {
		return nil, err
	}
	if err = db.Model(&models.TestSuiteResult{}).Where("finished = ?", false).Count(&counts.UnfinishedSuites).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

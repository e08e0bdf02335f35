package models

import "gorm.io/gorm"

// TestResult is a result of a single test for a single submit.
// Claim fields are maintained by the check queue only
type TestResult struct {
	gorm.Model

	SubmitID uint `gorm:"uniqueIndex:idx_test_result" json:"SubmitID" yaml:"SubmitID"`
	TestID   uint `gorm:"uniqueIndex:idx_test_result" json:"TestID" yaml:"TestID"`

	Pending bool  `gorm:"index" json:"Pending" yaml:"Pending"`
	OA      OAMap `json:"OA" yaml:"OA"`

	ClaimedBy     string `json:"ClaimedBy,omitempty" yaml:"ClaimedBy,omitempty"`
	Attempt       uint64 `json:"Attempt" yaml:"Attempt"`
	LeaseDeadline int64  `json:"LeaseDeadline,omitempty" yaml:"LeaseDeadline,omitempty"` // unix ms
	CompletedAt   int64  `json:"CompletedAt,omitempty" yaml:"CompletedAt,omitempty"`     // unix ms

	Test Test `json:"-" yaml:"-"`
}

package models

import "gorm.io/gorm"

type TestSuiteResult struct {
	gorm.Model

	SubmitID    uint `gorm:"uniqueIndex:idx_test_suite_result" json:"SubmitID" yaml:"SubmitID"`
	TestSuiteID uint `gorm:"uniqueIndex:idx_test_suite_result" json:"TestSuiteID" yaml:"TestSuiteID"`

	Status string `json:"Status" yaml:"Status"`
	Report string `json:"Report" yaml:"Report"`
	OA     OAMap  `json:"OA" yaml:"OA"`

	Started  bool `json:"Started" yaml:"Started"`
	Finished bool `json:"Finished" yaml:"Finished"`
}

package models

import "gorm.io/gorm"

type Test struct {
	gorm.Model

	Name string `json:"Name" yaml:"Name"`
	// Data is given to judges together with every test result of the test
	Data OAMap `json:"Data" yaml:"Data"`
}

type TestSuite struct {
	gorm.Model

	Name string `json:"Name" yaml:"Name"`
	// Reporter is a name of aggregation strategy, empty means default one
	Reporter string `json:"Reporter" yaml:"Reporter"`

	Mappings []TestMapping `json:"Mappings,omitempty" yaml:"Mappings,omitempty"`
}

// TestMapping binds a test to a suite. Order is used to sort tests inside the suite
type TestMapping struct {
	gorm.Model

	TestSuiteID uint `gorm:"uniqueIndex:idx_test_mapping" json:"TestSuiteID" yaml:"TestSuiteID"`
	TestID      uint `gorm:"uniqueIndex:idx_test_mapping" json:"TestID" yaml:"TestID"`
	Order       int  `gorm:"column:sort_order" json:"Order" yaml:"Order"`

	Test Test `json:"-" yaml:"-"`
}

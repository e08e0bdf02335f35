package models

import "gorm.io/gorm"

type Submit struct {
	gorm.Model

	Data OAMap `json:"Data" yaml:"Data"`
	// Overrides are set by admins; non-blob "status" and "report" replace computed values
	Overrides OAMap `json:"Overrides" yaml:"Overrides"`
}

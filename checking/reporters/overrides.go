package reporters

import (
	"satori/common/constants/status"
	"satori/common/db/models"
)

// ResolveOverrides replaces computed status and report with non-blob overrides, if there are any
func ResolveOverrides(overrides models.OAMap, computedStatus string, computedReport string) (string, string) {
	if s, ok := overrides.GetStr(status.AttrStatus); ok {
		computedStatus = s
	}
	if r, ok := overrides.GetStr(status.AttrReport); ok {
		computedReport = r
	}
	return computedStatus, computedReport
}

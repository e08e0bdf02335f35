package judgeconn

import (
	"fmt"
	"satori/common/db/models"
)

// Task is a claimed test result given to a judge.
// Attempt must be sent back with the result, results of older attempts are rejected
type Task struct {
	TestResultID uint         `json:"TestResultID"`
	Attempt      uint64       `json:"Attempt"`
	TestData     models.OAMap `json:"TestData"`
	SubmitData   models.OAMap `json:"SubmitData"`
}

func (t Task) String() string {
	return fmt.Sprintf("TestResult: %d Attempt: %d", t.TestResultID, t.Attempt)
}

type NextRequest struct {
	Judge string `json:"Judge" binding:"required"`
}

type ResultRequest struct {
	TestResultID uint         `json:"TestResultID" binding:"required"`
	Attempt      uint64       `json:"Attempt" binding:"required"`
	Result       models.OAMap `json:"Result"`
}

type QueueStatus struct {
	Pending          int64 `json:"Pending"`
	Claimed          int64 `json:"Claimed"`
	ActiveSessions   int   `json:"ActiveSessions"`
	UnfinishedSuites int64 `json:"UnfinishedSuites"`
}

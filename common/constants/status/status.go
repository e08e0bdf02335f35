package status

// Statuses are kept as plain strings: judges may report codes which are not listed here
const (
	QUE = "QUE" // Queued, checking is in progress
	OK  = "OK"  // Test passed
	ACC = "ACC" // Accepted (manually graded assignments)
	INT = "INT" // Internal error, also used when judge did not report status

	ANS = "ANS" // Wrong answer
	TLE = "TLE" // Time limit exceeded
	MEM = "MEM" // Memory limit exceeded
	RTE = "RTE" // Runtime error
	CME = "CME" // Compilation error
	EXT = "EXT" // Bad exit code
)

// Attribute names shared by judges and reporters
const (
	AttrStatus  = "status"
	AttrReport  = "report"
	AttrChecked = "checked"
	AttrPassed  = "passed"
)

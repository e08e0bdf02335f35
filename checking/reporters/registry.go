package reporters

import (
	"errors"
	"fmt"
	"satori/common/db/models"
)

var ErrUnknownReporter = errors.New("unknown reporter")

type Kind int

const (
	Assignment Kind = iota + 1
	Status
	MultipleStatus
	Points
)

var kindNames = map[Kind]string{
	Assignment:     "AssignmentReporter",
	Status:         "StatusReporter",
	MultipleStatus: "MultipleStatusReporter",
	Points:         "PointsReporter",
}

var constructors = map[Kind]func(*models.TestSuiteResult, Store) Reporter{
	Assignment:     newAssignmentReporter,
	Status:         newStatusReporter,
	MultipleStatus: newMultipleStatusReporter,
	Points:         newPointsReporter,
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return name
}

// ParseKind finds reporter kind by its name, e.g. "StatusReporter"
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReporter, name)
}

// New creates reporter of given kind for the test suite result
func New(kind Kind, result *models.TestSuiteResult, store Store) (Reporter, error) {
	constructor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownReporter, kind)
	}
	return constructor(result, store), nil
}

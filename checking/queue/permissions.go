package queue

import (
	"context"
	"errors"
	"fmt"
	"satori/common/config"
)

var ErrJudgeNotPermitted = errors.New("judge is not permitted")

// Permissions decides which test suites a judge may check
type Permissions interface {
	// AllowedSuites returns allowed test suite ids, or all = true if the judge may check everything
	AllowedSuites(ctx context.Context, judge string) (ids []uint, all bool, err error)
}

type configPermissions struct {
	judges map[string]*config.JudgePermissions
}

// NewConfigPermissions allows everything to everyone if no judges are configured,
// otherwise only configured judges may check
func NewConfigPermissions(config *config.CheckingConfig) Permissions {
	return &configPermissions{judges: config.Judges}
}

func (p *configPermissions) AllowedSuites(_ context.Context, judge string) ([]uint, bool, error) {
	if len(p.judges) == 0 {
		return nil, true, nil
	}
	permissions, ok := p.judges[judge]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrJudgeNotPermitted, judge)
	}
	if permissions == nil || len(permissions.TestSuites) == 0 {
		return nil, true, nil
	}
	return permissions.TestSuites, false, nil
}

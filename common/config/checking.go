package config

import (
	"time"

	"github.com/xorcare/pointer"
)

type CheckingConfig struct {
	// LeaseTimeout is the time a judge may hold a claimed test result before it can be given to another judge
	LeaseTimeout time.Duration `yaml:"LeaseTimeout"`
	// ReclaimInterval defines how often expired claims are released
	ReclaimInterval time.Duration `yaml:"ReclaimInterval"`

	// DefaultReporter is used for test suites without reporter
	DefaultReporter string `yaml:"DefaultReporter"`

	// Judges restricts judges to test suites. If empty, any judge may check any test suite
	Judges map[string]*JudgePermissions `yaml:"Judges,omitempty"`

	LocalJudges []*LocalJudgeConfig `yaml:"LocalJudges,omitempty"`
}

type JudgePermissions struct {
	// TestSuites lists allowed suite ids, empty list allows everything
	TestSuites []uint `yaml:"TestSuites,omitempty"`
}

type LocalJudgeConfig struct {
	Name    string   `yaml:"Name"`
	Command []string `yaml:"Command"`
	Threads *int     `yaml:"Threads,omitempty"`
}

func fillInCheckingConfig(config *CheckingConfig) {
	if config.LeaseTimeout == 0 {
		config.LeaseTimeout = 2 * time.Minute
	}
	if config.ReclaimInterval == 0 {
		config.ReclaimInterval = 10 * time.Second
	}
	if config.DefaultReporter == "" {
		config.DefaultReporter = "StatusReporter"
	}
	for _, judge := range config.LocalJudges {
		if judge.Name == "" {
			panic("No local judge name specified")
		}
		if len(judge.Command) == 0 {
			panic("No command specified for local judge " + judge.Name)
		}
		if judge.Threads == nil {
			judge.Threads = pointer.Int(1)
		}
	}
}

package config

import "time"

type JudgeConfig struct {
	Name    string   `yaml:"Name"`
	Command []string `yaml:"Command"`
	Threads int      `yaml:"Threads"`

	// WorkDir is used to store blob attributes passed to command
	WorkDir string `yaml:"WorkDir"`

	PollInterval    time.Duration `yaml:"PollInterval"`
	MaxPollInterval time.Duration `yaml:"MaxPollInterval"`
}

func fillInJudgeConfig(config *JudgeConfig) {
	if len(config.Command) == 0 {
		panic("No judge command specified")
	}
	if config.Threads == 0 {
		config.Threads = 1
	}
	if config.PollInterval == 0 {
		config.PollInterval = 500 * time.Millisecond
	}
	if config.MaxPollInterval == 0 {
		config.MaxPollInterval = 10 * time.Second
	}
}

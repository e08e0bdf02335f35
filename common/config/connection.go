package config

import "time"

type Connection struct {
	Address string `yaml:"Address"`

	Timeout *time.Duration `yaml:"Timeout,omitempty"`
}

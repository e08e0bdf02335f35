package config

import (
	"os"

	"github.com/xorcare/pointer"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int     `yaml:"Port"`
	Host *string `yaml:"Host,omitempty"` // leave empty for localhost

	LogLevel *int    `yaml:"LogLevel,omitempty"`
	LogPath  *string `yaml:"LogPath,omitempty"` // leave empty for stdout/stderr

	Checking *CheckingConfig `yaml:"Checking,omitempty"`
	Judge    *JudgeConfig    `yaml:"Judge,omitempty"`
	Notifier *NotifierConfig `yaml:"Notifier,omitempty"`

	DB DBConfig `yaml:"DB"`
	// judge clients connect to checking service through this connection
	CheckingConnection *Connection `yaml:"CheckingConnection,omitempty"`
}

func ReadConfig(configPath string) *Config {
	content, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}

	config := new(Config)
	err = yaml.Unmarshal(content, config)
	if err != nil {
		panic(err)
	}

	FillInConfig(config)

	return config
}

func FillInConfig(config *Config) {
	if config.Host == nil {
		config.Host = pointer.String("localhost")
	}
	if config.Port == 0 {
		config.Port = 8080
	}

	if config.Checking != nil {
		fillInCheckingConfig(config.Checking)
	}
	if config.Judge != nil {
		fillInJudgeConfig(config.Judge)
	}
	if config.Notifier == nil {
		config.Notifier = &NotifierConfig{}
	}
	fillInNotifierConfig(config.Notifier)
}

package config

type NotifierConfig struct {
	// NatsURL may be left empty, events will be only logged then
	NatsURL string `yaml:"NatsURL,omitempty"`

	SubjectPrefix string `yaml:"SubjectPrefix"`
}

func fillInNotifierConfig(config *NotifierConfig) {
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = "satori.checking"
	}
}

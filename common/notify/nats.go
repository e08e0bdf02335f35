package notify

import (
	"context"
	"encoding/json"
	"satori/common/config"
	"satori/lib/logger"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nats-io/nats.go"
)

const publishTries = 3

type natsNotifier struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsNotifier(config *config.NotifierConfig) (Notifier, error) {
	nc, err := nats.Connect(
		config.NatsURL,
		nats.Name("satori-checking"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, logger.Error("can not connect to nats at %s, error: %v", config.NatsURL, err)
	}
	return &natsNotifier{
		nc:     nc,
		prefix: config.SubjectPrefix,
	}, nil
}

func (n *natsNotifier) Publish(ctx context.Context, event *Event) {
	b, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event %s, error: %v", event.Type, err)
		return
	}

	subject := n.prefix + "." + event.Type
	_, err = backoff.Retry(
		ctx,
		func() (*struct{}, error) {
			return nil, n.nc.Publish(subject, b)
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(publishTries),
	)
	if err != nil {
		logger.Warn("failed to publish event %s to nats, error: %v", event.Type, err)
	}
}

func (n *natsNotifier) Close() {
	if err := n.nc.Drain(); err != nil {
		logger.Warn("failed to drain nats connection, error: %v", err)
	}
}

// NewNotifier chooses notifier according to config
func NewNotifier(config *config.NotifierConfig) (Notifier, error) {
	if config == nil || config.NatsURL == "" {
		return NewLogNotifier(), nil
	}
	return NewNatsNotifier(config)
}

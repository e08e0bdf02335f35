package judgeconn

import (
	"context"
	"errors"
	"net/http"
	"satori/common/config"
	"satori/common/connectors"
	"satori/common/db/models"
	"satori/lib/connector"

	"github.com/go-resty/resty/v2"
)

// ErrResultRejected is returned when checking service refused the result (stale attempt or already reported)
var ErrResultRejected = errors.New("result rejected by checking service")

type Connector struct {
	connection *connectors.ConnectorBase
}

func NewConnector(connection *config.Connection) *Connector {
	return &Connector{connectors.NewConnectorBase(connection)}
}

// GetNext returns nil task if there is nothing to check
func (c *Connector) GetNext(ctx context.Context, judge string) (*Task, error) {
	r := c.connection.R()
	r.SetBody(&NextRequest{Judge: judge})
	return connector.Receive[Task](ctx, r, "/checking/judge/next", resty.MethodPost)
}

func (c *Connector) SetResult(ctx context.Context, testResultID uint, attempt uint64, result models.OAMap) error {
	r := c.connection.R()
	r.SetBody(&ResultRequest{
		TestResultID: testResultID,
		Attempt:      attempt,
		Result:       result,
	})

	err := connector.ReceiveEmpty(ctx, r, "/checking/judge/result", resty.MethodPost)
	var connErr *connector.Error
	if errors.As(err, &connErr) && connErr.Code == http.StatusConflict {
		return errors.Join(ErrResultRejected, err)
	}
	return err
}

func (c *Connector) Status(ctx context.Context) (*QueueStatus, error) {
	return connector.Receive[QueueStatus](ctx, c.connection.R(), "/checking/status", resty.MethodGet)
}

package connector

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

type Error struct {
	Code    int
	Message string
	Path    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("connector error, request path: %s, code: %d, message: %s", e.Path, e.Code, e.Message)
}

// Receive executes request and unpacks response envelope written by RespOK/RespErr
func Receive[T any](ctx context.Context, r *resty.Request, path string, method string) (*T, error) {
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
		Data  *T     `json:"data,omitempty"`
	}
	r.SetContext(ctx)
	r.SetResult(&result)
	r.SetError(&result)
	resp, err := r.Execute(method, path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !result.OK {
		return nil, &Error{
			Code:    resp.StatusCode(),
			Message: result.Error,
			Path:    path,
		}
	}
	return result.Data, nil
}

func ReceiveEmpty(ctx context.Context, r *resty.Request, path string, method string) error {
	_, err := Receive[struct{}](ctx, r, path, method)
	return err
}

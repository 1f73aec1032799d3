package qmqptest

import (
	"context"

	"github.com/epithet-ssh/qmqp/pkg/qmqp"
)

// Handler decides the response to a request. A returned error is sent to
// the client as a permanent failure carrying the error text.
type Handler func(ctx context.Context, r qmqp.Request) (qmqp.Response, error)

// Static answers every request with the same code and details.
func Static(code qmqp.ReturnCode, details string) Handler {
	return func(context.Context, qmqp.Request) (qmqp.Response, error) {
		return qmqp.NewResponse(code, details), nil
	}
}

// EchoSender accepts every request and echoes the envelope sender as the
// details text.
func EchoSender() Handler {
	return func(_ context.Context, r qmqp.Request) (qmqp.Response, error) {
		return qmqp.NewResponse(qmqp.OK, r.Sender()), nil
	}
}

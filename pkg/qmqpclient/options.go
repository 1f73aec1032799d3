package qmqpclient

import (
	"log/slog"
	"time"
)

// Option configures the client
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) {
	f(c)
}

// WithConnectTimeout bounds how long establishing the connection may take.
// A value <= 0 means no timeout.
func WithConnectTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.connectTimeout = d
	})
}

// WithReadTimeout bounds how long a single read of the response may block.
// A value <= 0 means no timeout.
func WithReadTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.readTimeout = d
	})
}

// WithMaxResponse limits how many bytes the server may send in reply.
// A value <= 0 removes the limit. Default: DefaultMaxResponse.
func WithMaxResponse(n int) Option {
	return optionFunc(func(c *Client) {
		c.maxResponse = n
	})
}

// WithDialer specifies the dialer used to open connections.
func WithDialer(d Dialer) Option {
	return optionFunc(func(c *Client) {
		c.dialer = d
	})
}

// WithLogger specifies the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	})
}

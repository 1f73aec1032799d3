package qmqptest

import (
	"log/slog"
	"time"
)

// Option configures a Server
type Option func(*Server)

// WithDelay makes the server wait before answering each request.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithLogger sets the logger for connection and request events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxLength limits the size of an accepted request frame.
func WithMaxLength(n int) Option {
	return func(s *Server) {
		s.maxLength = n
	}
}

package qmqpclient

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultHost is used when no host is configured.
	DefaultHost = "localhost"
	// DefaultPort is the well-known QMQP port.
	DefaultPort = 628
)

// Config is the serializable form of the client settings, as read from a
// configuration file. Timeouts are Go duration strings such as "30s"; an
// empty string or a non-positive duration means no timeout.
type Config struct {
	Host           string `json:"host,omitempty"`
	Port           int    `json:"port,omitempty"`
	ConnectTimeout string `json:"connect_timeout,omitempty"`
	ReadTimeout    string `json:"read_timeout,omitempty"`
}

// Addr returns host:port, filling in DefaultHost and DefaultPort.
func (c Config) Addr() string {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Validate checks port range and timeout syntax.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := parseTimeout(c.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid connect_timeout: %w", err)
	}
	if _, err := parseTimeout(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	return nil
}

// NewFromConfig creates a client from cfg. Options are applied after the
// settings taken from cfg and may override them.
func NewFromConfig(cfg Config, options ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connect, _ := parseTimeout(cfg.ConnectTimeout)
	read, _ := parseTimeout(cfg.ReadTimeout)

	opts := []Option{WithConnectTimeout(connect), WithReadTimeout(read)}
	return New(cfg.Addr(), append(opts, options...)...), nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Package qmqpclient submits messages to a QMQP server.
//
// Each call to Send performs one complete exchange on a fresh TCP
// connection: connect, write the request, read until the server closes the
// connection, decode the response. Failures are reported as a
// *TransportError carrying the phase in which they happened.
package qmqpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/epithet-ssh/qmqp/pkg/qmqp"
)

const (
	readChunkSize = 8192

	// DefaultMaxResponse bounds how much a server may send before the
	// client gives up. Real responses are a short status line.
	DefaultMaxResponse = 64 * 1024
)

// ErrResponseTooLarge is the cause of a read-phase TransportError when the
// server sends more than the configured maximum.
var ErrResponseTooLarge = errors.New("qmqp: response exceeds maximum size")

// Dialer opens network connections. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client is a QMQP client. Its configuration is fixed at construction, so a
// single Client may be used by many goroutines at once; every Send uses its
// own connection.
type Client struct {
	addr           string
	connectTimeout time.Duration
	readTimeout    time.Duration
	maxResponse    int
	dialer         Dialer
	logger         *slog.Logger
}

// New creates a client that sends to addr (host:port).
func New(addr string, options ...Option) *Client {
	client := &Client{
		addr:        addr,
		maxResponse: DefaultMaxResponse,
		dialer:      &net.Dialer{},
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, o := range options {
		o.apply(client)
	}

	return client
}

// Addr returns the server address the client sends to.
func (c *Client) Addr() string {
	return c.addr
}

// Send submits r for queueing and returns the server's response.
//
// ctx bounds connection establishment only; once connected, the exchange is
// governed by the read timeout. A non-OK return code is not an error: it
// is reported through the returned Response.
func (c *Client) Send(ctx context.Context, r qmqp.Request) (qmqp.Response, error) {
	frame, err := qmqp.EncodeRequest(r)
	if err != nil {
		return qmqp.Response{}, err
	}

	raw, err := c.exchange(ctx, frame)
	if err != nil {
		return qmqp.Response{}, err
	}

	resp, err := qmqp.DecodeResponse(raw)
	if err != nil {
		return qmqp.Response{}, err
	}

	c.logger.Debug("qmqp response", "addr", c.addr, "code", resp.Code(), "details", resp.Details())
	return resp, nil
}

// exchange writes frame on a new connection and returns everything the
// server sends until it closes the connection.
func (c *Client) exchange(ctx context.Context, frame []byte) (raw []byte, err error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, c.fail(PhaseConnect, err)
	}
	defer func() {
		cerr := conn.Close()
		if cerr == nil {
			return
		}
		if err != nil {
			// Reporting this would hide the original failure.
			c.logger.Debug("close after failed exchange", "addr", c.addr, "error", cerr)
			return
		}
		raw, err = nil, c.fail(PhaseClose, cerr)
	}()

	c.logger.Debug("connected", "addr", c.addr, "local", conn.LocalAddr().String())

	if _, err := conn.Write(frame); err != nil {
		return nil, c.fail(PhaseWrite, err)
	}
	c.logger.Debug("request written", "addr", c.addr, "bytes", len(frame))

	raw, err = c.readAll(conn)
	if err != nil {
		return nil, c.fail(PhaseRead, err)
	}
	c.logger.Debug("response read", "addr", c.addr, "bytes", len(raw))

	return raw, nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	if c.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}
	return c.dialer.DialContext(ctx, "tcp", c.addr)
}

// readAll reads until EOF. The read timeout applies to each read, so a
// server that keeps trickling bytes is not cut off, but one that goes
// silent is. At most maxResponse bytes are accepted.
func (c *Client) readAll(conn net.Conn) ([]byte, error) {
	// A silent server yields an empty, non-nil response, which then fails
	// to decode as a too-short frame.
	buf := bytes.NewBuffer(make([]byte, 0, readChunkSize))
	chunk := make([]byte, readChunkSize)

	for {
		if c.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
				return nil, err
			}
		}

		n, err := conn.Read(chunk)
		buf.Write(chunk[:n])
		if c.maxResponse > 0 && buf.Len() > c.maxResponse {
			return nil, ErrResponseTooLarge
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) fail(phase Phase, err error) error {
	return &TransportError{Phase: phase, Addr: c.addr, Err: err}
}

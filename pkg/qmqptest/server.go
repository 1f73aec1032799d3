// Package qmqptest provides a QMQP server for tests and local development.
//
// The server answers each connection with exactly one response, decided by
// a Handler, and then closes the connection. It reads requests
// incrementally, so clients need not half-close their side.
package qmqptest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/epithet-ssh/qmqp/pkg/netstr"
	"github.com/epithet-ssh/qmqp/pkg/qmqp"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxLength bounds request frames unless WithMaxLength says otherwise.
const DefaultMaxLength = 32 * 1024 * 1024

// Server is a running QMQP server.
type Server struct {
	ln        net.Listener
	handler   Handler
	logger    *slog.Logger
	delay     time.Duration
	maxLength int

	cancel context.CancelFunc
	group  *errgroup.Group

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	received []qmqp.Request
	closed   bool

	closeOnce sync.Once
	closeErr  error
}

// Start listens on addr and serves requests with handler until Close is
// called. The listener is bound before Start returns, so Addr is
// immediately usable.
func Start(addr string, handler Handler, options ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		ln:        ln,
		handler:   handler,
		logger:    slog.New(slog.DiscardHandler),
		maxLength: DefaultMaxLength,
		conns:     make(map[net.Conn]struct{}),
	}
	for _, o := range options {
		o(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.group, ctx = errgroup.WithContext(ctx)
	s.group.Go(func() error {
		return s.acceptLoop(ctx)
	})

	s.logger.Debug("qmqp server listening", "addr", s.Addr())
	return s, nil
}

// NewServer starts a server on a random loopback port. It panics if the
// port cannot be bound, which only happens in a broken test environment.
func NewServer(handler Handler, options ...Option) *Server {
	s, err := Start("127.0.0.1:0", handler, options...)
	if err != nil {
		panic(fmt.Sprintf("qmqptest: %v", err))
	}
	return s
}

// Addr returns the address the server is listening on, as host:port.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Received returns the requests decoded so far, in arrival order.
func (s *Server) Received() []qmqp.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]qmqp.Request, len(s.received))
	copy(out, s.received)
	return out
}

// Wait blocks until the server stops, either through Close or because
// accepting connections failed.
func (s *Server) Wait() error {
	err := s.group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops accepting connections, drops the open ones and waits for all
// connection goroutines to return. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		lerr := s.ln.Close()

		s.mu.Lock()
		s.closed = true
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		werr := s.Wait()
		if errors.Is(lerr, net.ErrClosed) {
			lerr = nil
		}
		s.closeErr = errors.Join(lerr, werr)
	})
	return s.closeErr
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}

		s.group.Go(func() error {
			defer s.untrack(conn)
			s.serve(ctx, conn)
			return nil
		})
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log := s.logger.With("remote", conn.RemoteAddr().String())

	req, err := qmqp.ReadRequest(conn, netstr.MaxLength(s.maxLength))
	if err != nil {
		var fe *netstr.FormatError
		var pe *qmqp.ProtocolError
		if !errors.As(err, &fe) && !errors.As(err, &pe) && !errors.Is(err, netstr.ErrTooLarge) {
			log.Debug("failed to read request", "error", err)
			return
		}
		log.Warn("malformed request", "error", err)
		s.respond(log, conn, qmqp.NewResponse(qmqp.PermFail, "malformed request"))
		return
	}
	s.record(req)

	log.Info("request received",
		"sender", req.Sender(),
		"recipients", req.Recipients(),
		"bytes", len(req.Message()))

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return
		}
	}

	s.respond(log, conn, s.handle(ctx, log, req))
}

func (s *Server) handle(ctx context.Context, log *slog.Logger, req qmqp.Request) (resp qmqp.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", "panic", r)
			resp = qmqp.NewResponse(qmqp.PermFail, "internal error")
		}
	}()

	resp, err := s.handler(ctx, req)
	if err != nil {
		log.Warn("handler failed", "error", err)
		return qmqp.NewResponse(qmqp.PermFail, strings.ToValidUTF8(err.Error(), "?"))
	}
	return resp
}

func (s *Server) respond(log *slog.Logger, conn net.Conn, resp qmqp.Response) {
	if _, err := qmqp.EncodeResponse(resp); err != nil {
		log.Error("handler returned an unencodable response", "error", err)
		resp = qmqp.NewResponse(qmqp.PermFail, "internal error")
	}
	if err := qmqp.WriteResponse(conn, resp); err != nil {
		log.Warn("failed to write response", "error", err)
		return
	}
	log.Debug("response sent", "code", resp.Code(), "details", resp.Details())
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) record(req qmqp.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, req)
}

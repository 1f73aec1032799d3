package qmqptest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/epithet-ssh/qmqp/pkg/qmqp"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	logger := slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
	return logger
}

// roundTrip writes raw bytes to the server and returns everything it sends
// back before closing the connection.
func roundTrip(t *testing.T, addr string, raw []byte) []byte {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Write(raw)
	require.NoError(t, err)

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return resp
}

func sendRequest(t *testing.T, addr string, sender string, recipients ...string) qmqp.Response {
	t.Helper()
	req, err := qmqp.NewRequest([]byte("hello\r\n"), sender, recipients...)
	require.NoError(t, err)
	frame, err := qmqp.EncodeRequest(req)
	require.NoError(t, err)

	resp, err := qmqp.DecodeResponse(roundTrip(t, addr, frame))
	require.NoError(t, err)
	return resp
}

func TestServer_Static(t *testing.T) {
	s := NewServer(Static(qmqp.TempFail, "try later"), WithLogger(testLogger(t)))
	defer s.Close()

	resp := sendRequest(t, s.Addr(), "a@b", "c@d")
	assert.Equal(t, qmqp.TempFail, resp.Code())
	assert.Equal(t, "try later", resp.Details())
}

func TestServer_EchoSenderRecordsRequest(t *testing.T) {
	s := NewServer(EchoSender(), WithLogger(testLogger(t)))
	defer s.Close()

	resp := sendRequest(t, s.Addr(), "foo@example.org", "bar@baz", "qux@baz")
	assert.Equal(t, qmqp.OK, resp.Code())
	assert.Equal(t, "foo@example.org", resp.Details())

	got := s.Received()
	require.Len(t, got, 1)
	assert.Equal(t, "foo@example.org", got[0].Sender())
	assert.Equal(t, []string{"bar@baz", "qux@baz"}, got[0].Recipients())
	assert.Equal(t, []byte("hello\n"), got[0].Message())
}

func TestServer_HandlerError(t *testing.T) {
	s := NewServer(func(context.Context, qmqp.Request) (qmqp.Response, error) {
		return qmqp.Response{}, errors.New("mailbox unavailable")
	}, WithLogger(testLogger(t)))
	defer s.Close()

	resp := sendRequest(t, s.Addr(), "a@b", "c@d")
	assert.Equal(t, qmqp.PermFail, resp.Code())
	assert.Equal(t, "mailbox unavailable", resp.Details())
}

func TestServer_HandlerPanic(t *testing.T) {
	s := NewServer(func(context.Context, qmqp.Request) (qmqp.Response, error) {
		panic("boom")
	}, WithLogger(testLogger(t)))
	defer s.Close()

	resp := sendRequest(t, s.Addr(), "a@b", "c@d")
	assert.Equal(t, qmqp.PermFail, resp.Code())
	assert.Equal(t, "internal error", resp.Details())
}

func TestServer_UnencodableResponse(t *testing.T) {
	tests := []struct {
		name string
		resp qmqp.Response
	}{
		{"zero value", qmqp.Response{}},
		{"unknown code", qmqp.NewResponse(qmqp.ReturnCode('X'), "what")},
		{"invalid utf-8 details", qmqp.NewResponse(qmqp.OK, "\xff\xfe")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(func(context.Context, qmqp.Request) (qmqp.Response, error) {
				return tt.resp, nil
			}, WithLogger(testLogger(t)))
			defer s.Close()

			resp := sendRequest(t, s.Addr(), "a@b", "c@d")
			assert.Equal(t, qmqp.PermFail, resp.Code())
			assert.Equal(t, "internal error", resp.Details())
		})
	}
}

func TestServer_MalformedRequest(t *testing.T) {
	s := NewServer(EchoSender(), WithLogger(testLogger(t)))
	defer s.Close()

	resp, err := qmqp.DecodeResponse(roundTrip(t, s.Addr(), []byte("3:abc,")))
	require.NoError(t, err)
	assert.Equal(t, qmqp.PermFail, resp.Code())
	assert.Empty(t, s.Received())
}

func TestServer_RequestTooLarge(t *testing.T) {
	s := NewServer(EchoSender(), WithMaxLength(16), WithLogger(testLogger(t)))
	defer s.Close()

	resp, err := qmqp.DecodeResponse(roundTrip(t, s.Addr(), []byte("100")))
	require.NoError(t, err)
	assert.Equal(t, qmqp.PermFail, resp.Code())
}

func TestServer_RespondsWithoutHalfClose(t *testing.T) {
	s := NewServer(Static(qmqp.OK, "queued"), WithLogger(testLogger(t)))
	defer s.Close()

	req, err := qmqp.NewRequest([]byte("x"), "a@b", "c@d")
	require.NoError(t, err)
	frame, err := qmqp.EncodeRequest(req)
	require.NoError(t, err)

	// The write side stays open; the server must answer anyway.
	roundTripped := roundTrip(t, s.Addr(), frame)
	assert.Equal(t, "7:Kqueued,", string(roundTripped))
}

func TestServer_Delay(t *testing.T) {
	s := NewServer(Static(qmqp.OK, ""), WithDelay(100*time.Millisecond), WithLogger(testLogger(t)))
	defer s.Close()

	start := time.Now()
	resp := sendRequest(t, s.Addr(), "a@b", "c@d")
	assert.Equal(t, qmqp.OK, resp.Code())
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestServer_CloseIsIdempotent(t *testing.T) {
	s := NewServer(EchoSender())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.NoError(t, s.Wait())

	_, err := net.DialTimeout("tcp", s.Addr(), time.Second)
	assert.Error(t, err)
}

func TestServer_CloseDropsIdleConnections(t *testing.T) {
	s := NewServer(EchoSender(), WithLogger(testLogger(t)))

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	defer conn.Close()

	// Give the accept loop a moment to pick the connection up.
	time.Sleep(50 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on an idle connection")
	}
}

func TestStart_BadAddress(t *testing.T) {
	_, err := Start("256.0.0.1:0", EchoSender())
	require.Error(t, err)
}

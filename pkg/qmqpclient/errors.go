package qmqpclient

import (
	"errors"
	"fmt"
	"net"
)

// Phase identifies the step of an exchange in which a transport failure
// happened.
type Phase int

const (
	// PhaseConnect covers everything before a connection exists.
	PhaseConnect Phase = iota + 1
	// PhaseWrite covers sending the request on an open connection.
	PhaseWrite
	// PhaseRead covers receiving the response.
	PhaseRead
	// PhaseClose covers releasing the connection after an otherwise
	// successful exchange.
	PhaseClose
)

func (p Phase) String() string {
	switch p {
	case PhaseConnect:
		return "connect"
	case PhaseWrite:
		return "write"
	case PhaseRead:
		return "read"
	case PhaseClose:
		return "close"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// TransportError indicates the exchange with the server failed at the
// network level. The client never retries; callers wanting resilience
// call Send again.
type TransportError struct {
	Phase Phase
	Addr  string
	Err   error
}

func (e *TransportError) Error() string {
	switch e.Phase {
	case PhaseConnect:
		return fmt.Sprintf("qmqp: failed to connect to %s: %v", e.Addr, e.Err)
	case PhaseWrite:
		return fmt.Sprintf("qmqp: failed to write to %s: %v", e.Addr, e.Err)
	case PhaseRead:
		return fmt.Sprintf("qmqp: failed to read from %s: %v", e.Addr, e.Err)
	default:
		return fmt.Sprintf("qmqp: failed to %s connection to %s: %v", e.Phase, e.Addr, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by an elapsed connect or
// read timeout.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

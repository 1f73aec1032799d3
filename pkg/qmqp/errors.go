package qmqp

import (
	"errors"
	"strings"
)

// Argument errors, reported when a request is built or encoded.
var (
	ErrNonASCII       = errors.New("qmqp: address must be 7-bit ASCII")
	ErrEmptySender    = errors.New("qmqp: sender must not be empty")
	ErrNoRecipients   = errors.New("qmqp: at least one recipient is required")
	ErrInvalidRequest = errors.New("qmqp: invalid request")
)

// Protocol error kinds, reported while parsing bytes received from a peer.
var (
	ErrMalformedRequest  = errors.New("request is malformed")
	ErrInvalidUTF8       = errors.New("invalid UTF-8")
	ErrUnknownReturnCode = errors.New("unknown return code")
	ErrEmptyResponse     = errors.New("empty response")
)

// ProtocolError is returned when well-framed bytes do not form a valid QMQP
// request or response. Framing failures are reported by package netstr.
type ProtocolError struct {
	Kind   error  // One of the protocol error kinds above
	Reason string // Optional detail
	Err    error  // Optional underlying cause
}

func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString("qmqp: ")
	b.WriteString(e.Kind.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProtocolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

package qmqp

import "fmt"

// Response is the status returned by a QMQP server.
type Response struct {
	code    ReturnCode
	details string
}

// NewResponse creates a response with the given code and detail text. The
// code and text are validated when the response is encoded.
func NewResponse(code ReturnCode, details string) Response {
	return Response{code: code, details: details}
}

// Code returns the return code.
func (r Response) Code() ReturnCode {
	return r.code
}

// Details returns the free-text detail message, which may be empty.
func (r Response) Details() string {
	return r.details
}

// Accepted reports whether the server accepted the message.
func (r Response) Accepted() bool {
	return r.code == OK
}

func (r Response) String() string {
	return fmt.Sprintf("%s: %s", r.code, r.details)
}

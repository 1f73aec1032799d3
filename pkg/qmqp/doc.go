// Package qmqp implements the QMQP (Quick Mail Queueing Protocol) wire format.
//
// A request is one netstring whose payload is the concatenation of the
// netstring-framed message body, envelope sender and one or more envelope
// recipients:
//
//	netstr( netstr(message) netstr(sender) netstr(recipient)... )
//
// The message body is sent as an "8-bit text" message: CRLF line endings are
// collapsed to LF by NormalizeText before framing.
//
// A response is one netstring whose payload is a single return code byte
// followed by UTF-8 detail text:
//
//	"12:KAll is fine,"  // OK, "All is fine"
//
// See http://cr.yp.to/proto/qmqp.html for the protocol description.
package qmqp

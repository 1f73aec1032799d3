package qmqp

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/epithet-ssh/qmqp/pkg/netstr"
)

// EncodeRequest returns the wire representation of r.
//
// The message is normalized to an 8-bit text message, then the message,
// sender and each recipient are framed as netstrings and the concatenation
// is framed once more.
func EncodeRequest(r Request) ([]byte, error) {
	if r.IsZero() || len(r.recipients) == 0 {
		return nil, ErrInvalidRequest
	}
	if err := validateEnvelope(r.sender, r.recipients); err != nil {
		return nil, err
	}

	msg := NormalizeText(r.message)
	if msg == nil {
		msg = []byte{}
	}

	size := len(msg) + len(r.sender) + 24
	for _, rcpt := range r.recipients {
		size += len(rcpt) + 12
	}

	inner := make([]byte, 0, size)
	inner = netstr.Append(inner, msg)
	inner = netstr.Append(inner, []byte(r.sender))
	for _, rcpt := range r.recipients {
		inner = netstr.Append(inner, []byte(rcpt))
	}

	return netstr.Encode(inner)
}

// DecodeRequest parses the wire representation of a request.
//
// The message is returned exactly as sent; decoding does not undo the
// line ending normalization applied by EncodeRequest.
func DecodeRequest(frame []byte) (Request, error) {
	payload, err := netstr.Decode(frame)
	if err != nil {
		return Request{}, err
	}
	return parseRequest(payload)
}

func parseRequest(payload []byte) (Request, error) {
	parts, err := netstr.SplitAll(payload)
	if err != nil {
		return Request{}, err
	}
	if len(parts) < 3 {
		return Request{}, &ProtocolError{
			Kind:   ErrMalformedRequest,
			Reason: fmt.Sprintf("expected at least 3 fields, got %d", len(parts)),
		}
	}

	sender := string(parts[1])
	recipients := make([]string, 0, len(parts)-2)
	for _, p := range parts[2:] {
		recipients = append(recipients, string(p))
	}
	if err := validateEnvelope(sender, recipients); err != nil {
		return Request{}, &ProtocolError{Kind: ErrMalformedRequest, Err: err}
	}

	// parts are fresh copies, so the request can own them directly.
	return Request{
		message:    parts[0],
		sender:     sender,
		recipients: recipients,
	}, nil
}

// EncodeResponse returns the wire representation of r.
func EncodeResponse(r Response) ([]byte, error) {
	if !r.code.Valid() {
		return nil, &ProtocolError{
			Kind:   ErrUnknownReturnCode,
			Reason: fmt.Sprintf("cannot encode %v", r.code),
		}
	}
	if !utf8.ValidString(r.details) {
		return nil, &ProtocolError{Kind: ErrInvalidUTF8, Reason: "details"}
	}

	var buf bytes.Buffer
	if err := netstr.NewEncoder(&buf).EncodeKeyedString(byte(r.code), r.details); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResponse parses the wire representation of a response. The payload
// must be valid UTF-8; malformed sequences are an error, never replaced.
func DecodeResponse(frame []byte) (Response, error) {
	payload, err := netstr.Decode(frame)
	if err != nil {
		return Response{}, err
	}
	if !utf8.Valid(payload) {
		return Response{}, &ProtocolError{Kind: ErrInvalidUTF8, Reason: "response payload"}
	}
	if len(payload) == 0 {
		return Response{}, &ProtocolError{Kind: ErrEmptyResponse}
	}

	code, err := ParseReturnCode(payload[0])
	if err != nil {
		return Response{}, err
	}
	return Response{code: code, details: string(payload[1:])}, nil
}

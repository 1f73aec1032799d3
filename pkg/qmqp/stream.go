package qmqp

import (
	"bufio"
	"io"

	"github.com/epithet-ssh/qmqp/pkg/netstr"
)

// ReadRequest reads exactly one request frame from r.
//
// The frame is parsed incrementally, so ReadRequest returns as soon as the
// closing comma arrives and does not wait for the peer to close its side of
// the connection. io.EOF is returned if r ends before the first byte.
func ReadRequest(r io.Reader, opts ...netstr.Option) (Request, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	payload, err := netstr.NewDecoder(br, opts...).Decode()
	if err != nil {
		return Request{}, err
	}
	return parseRequest(payload)
}

// WriteResponse encodes resp and writes it to w.
func WriteResponse(w io.Writer, resp Response) error {
	frame, err := EncodeResponse(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

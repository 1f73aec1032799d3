// Package netstr implements encoding and decoding of netstrings, the framing
// used for every field of a QMQP exchange.
//
// The format is: <length>:<payload>,
//
// Where <length> is the decimal ASCII representation of the payload length
// with no leading zeros (except the literal "0"), followed by a colon, the
// payload bytes, and a terminating comma.
//
// # Examples
//
//	"5:hello,"  // encodes the 5-byte string "hello"
//	"0:,"       // encodes an empty payload
//
// Keyed netstring (first byte is the key), as used by QMQP responses:
//
//	"12:KAll is fine," // key='K', value="All is fine"
//
// # Whole-buffer usage
//
// When the complete frame is already in memory:
//
//	frame, err := netstr.Encode([]byte("hello")) // "5:hello,"
//	payload, err := netstr.Decode(frame)
//	parts, err := netstr.SplitAll([]byte("1:a,1:b,")) // [a b]
//
// Decode insists that the input is exactly one frame. A declared length that
// leaves bytes over is reported as ErrLengthTooSmall, one that runs past the
// end of input as ErrLengthTooBig.
//
// # Streaming usage
//
// When bytes arrive from a socket, use the Decoder, which tracks how many
// payload bytes are still expected instead of re-parsing on every read:
//
//	dec := netstr.NewDecoder(bufio.NewReader(conn), netstr.MaxLength(64<<20))
//	payload, err := dec.Decode()
//
// # Errors
//
// Nil input is an argument error (ErrNilInput). Every malformed frame yields a
// *FormatError which matches both ErrInvalidFormat and one kind sentinel
// (ErrTooShort, ErrMissingLength, ErrInvalidLength, ErrMissingColon,
// ErrLengthTooSmall, ErrLengthTooBig, ErrMissingComma) under errors.Is.
//
// # Security
//
// The MaxLength option (default 1MB) bounds the length field accepted by the
// Decoder.
package netstr

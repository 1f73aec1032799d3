package netstr

import "io"

// minFrameLen is the size of the smallest valid netstring, "0:,".
const minFrameLen = 3

// Decoder reads netstrings from an io.ByteReader.
//
// io.ByteReader is implemented by *bufio.Reader and *bytes.Reader.
// For network streams, wrap your io.Reader in bufio.Reader for buffering:
//
//	dec := netstr.NewDecoder(bufio.NewReader(conn))
//
// The decoder uses zero lookahead - every byte read is immediately processed,
// so it never consumes bytes belonging to the next frame.
type Decoder struct {
	r         io.ByteReader
	maxLength int
	offset    int // Track position for error reporting
}

// NewDecoder creates a new netstring decoder.
//
// The decoder reads from r, which must implement io.ByteReader.
// Optional configuration can be provided via Option functions.
func NewDecoder(r io.ByteReader, opts ...Option) *Decoder {
	cfg := &config{
		maxLength: defaultMaxLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Decoder{
		r:         r,
		maxLength: cfg.maxLength,
	}
}

// Encoder writes netstrings to an io.Writer.
//
// The encoder writes are unbuffered; each netstring is handed to the
// underlying writer in a single Write call.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new netstring encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

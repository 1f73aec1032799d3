package qmqp

import "bytes"

const (
	lf = '\n'
	cr = '\r'
)

var crlf = []byte{cr, lf}

// NormalizeText converts a raw message into an 8-bit text message, in which
// lines are separated by a single LF.
//
// Every CRLF pair is collapsed to LF. A CR that is not followed by LF is kept
// as is, including a CR at the very end of the input. When b contains no
// CRLF pair it is returned unchanged without allocating.
func NormalizeText(b []byte) []byte {
	first := bytes.Index(b, crlf)
	if first < 0 {
		return b
	}

	out := make([]byte, 0, len(b)-1)
	out = append(out, b[:first]...)
	out = append(out, lf)

	pendingCR := false
	for _, c := range b[first+2:] {
		if c == cr {
			if pendingCR {
				out = append(out, cr)
			}
			pendingCR = true
			continue
		}
		if pendingCR && c != lf {
			out = append(out, cr)
		}
		out = append(out, c)
		pendingCR = false
	}
	if pendingCR {
		out = append(out, cr)
	}
	return out
}

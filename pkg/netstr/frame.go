package netstr

import (
	"bytes"
	"fmt"
)

// Decode returns the payload of frame, which must hold exactly one netstring.
//
// The colon, payload end and comma positions are computed from the length
// field, never found by scanning, so payloads may themselves contain commas.
func Decode(frame []byte) ([]byte, error) {
	if frame == nil {
		return nil, ErrNilInput
	}
	if len(frame) < minFrameLen {
		return nil, formatError(0, ErrTooShort,
			fmt.Sprintf("netstring too short: %d bytes", len(frame)))
	}

	length, colon, err := scanLength(frame, 0)
	if err != nil {
		return nil, err
	}

	comma := colon + 1 + length
	switch {
	case comma >= len(frame):
		return nil, formatError(len(frame), ErrLengthTooBig,
			fmt.Sprintf("declared length %d exceeds available %d bytes", length, len(frame)-colon-2))
	case comma < len(frame)-1:
		return nil, formatError(comma, ErrLengthTooSmall,
			fmt.Sprintf("declared length %d leaves %d trailing bytes", length, len(frame)-comma-1))
	case frame[comma] != ',':
		return nil, formatError(comma, ErrMissingComma,
			fmt.Sprintf("expected ',', got %q", rune(frame[comma])))
	}

	return bytes.Clone(frame[colon+1 : comma]), nil
}

// SplitAll decodes a concatenation of zero or more netstrings and returns
// their payloads in order.
func SplitAll(data []byte) ([][]byte, error) {
	if data == nil {
		return nil, ErrNilInput
	}

	parts := make([][]byte, 0)
	for off := 0; off < len(data); {
		payload, next, err := decodeAt(data, off)
		if err != nil {
			return nil, err
		}
		parts = append(parts, payload)
		off = next
	}
	return parts, nil
}

// decodeAt decodes the netstring starting at off and returns its payload and
// the offset just past its comma.
func decodeAt(data []byte, off int) ([]byte, int, error) {
	if len(data)-off < minFrameLen {
		return nil, 0, formatError(off, ErrTooShort,
			fmt.Sprintf("netstring too short: %d bytes", len(data)-off))
	}

	length, colon, err := scanLength(data, off)
	if err != nil {
		return nil, 0, err
	}

	comma := colon + 1 + length
	if comma >= len(data) {
		return nil, 0, formatError(len(data), ErrLengthTooBig,
			fmt.Sprintf("declared length %d exceeds available %d bytes", length, len(data)-colon-1))
	}
	if data[comma] != ',' {
		return nil, 0, formatError(comma, ErrMissingComma,
			fmt.Sprintf("expected ',', got %q", rune(data[comma])))
	}

	return bytes.Clone(data[colon+1 : comma]), comma + 1, nil
}

// scanLength parses the digit run starting at off and returns the declared
// length and the index of the terminating colon.
func scanLength(data []byte, off int) (length int, colon int, err error) {
	if data[off] == ':' {
		return 0, 0, formatError(off, ErrMissingLength, "length field is empty")
	}

	for i := off; i < len(data); i++ {
		b := data[i]
		if b == ':' {
			return length, i, nil
		}
		if b < '0' || b > '9' {
			return 0, 0, formatError(i, ErrInvalidLength,
				fmt.Sprintf("expected digit or ':', got %q", rune(b)))
		}
		if i > off && data[off] == '0' {
			return 0, 0, formatError(i, ErrInvalidLength, "length field has leading zero")
		}

		// Saturate once the value can no longer fit in the input; the
		// caller reports it as too big after the colon is found.
		if length <= len(data) {
			length = length*10 + int(b-'0')
		}
	}

	return 0, 0, formatError(len(data), ErrMissingColon, "end of input while reading length")
}

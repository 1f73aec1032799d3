package netstr

import (
	"fmt"
	"io"
)

// Decode reads the next standard netstring (no key) and returns its payload.
//
// Returns io.EOF when the stream ends cleanly between netstrings. A stream
// that ends inside a netstring yields a *FormatError.
func (d *Decoder) Decode() ([]byte, error) {
	length, err := d.readLength()
	if err != nil {
		return nil, err
	}

	payload, err := d.readExact(length)
	if err != nil {
		return nil, err
	}

	if err := d.expectComma(); err != nil {
		return nil, err
	}

	return payload, nil
}

// DecodeKeyed reads the next keyed netstring and returns its key and payload.
//
// The first byte of the netstring is the key, and the remaining bytes are the payload.
// Returns io.EOF when the stream ends.
func (d *Decoder) DecodeKeyed() (key byte, value []byte, err error) {
	length, err := d.readLength()
	if err != nil {
		return 0, nil, err
	}

	if length < 1 {
		return 0, nil, formatError(d.offset, ErrLengthTooSmall,
			"keyed netstring must have length >= 1")
	}

	key, err = d.readByte()
	if err != nil {
		return 0, nil, d.truncated(err, length, 0)
	}

	payload, err := d.readExact(length - 1)
	if err != nil {
		return 0, nil, err
	}

	if err := d.expectComma(); err != nil {
		return 0, nil, err
	}

	return key, payload, nil
}

// readLength reads the length field from the netstring.
// Format: <digits> ':'
func (d *Decoder) readLength() (int, error) {
	length := 0
	digitCount := 0
	leadingZero := false

	for {
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF {
				if digitCount == 0 {
					// Clean end of stream between netstrings
					return 0, io.EOF
				}
				return 0, formatError(d.offset, ErrMissingColon, "unexpected EOF while reading length")
			}
			return 0, err
		}

		if b == ':' {
			if digitCount == 0 {
				return 0, formatError(d.offset, ErrMissingLength, "length field is empty")
			}
			return length, nil
		}

		if b < '0' || b > '9' {
			return 0, formatError(d.offset, ErrInvalidLength,
				fmt.Sprintf("expected digit or ':', got %q", rune(b)))
		}

		if leadingZero {
			return 0, formatError(d.offset, ErrInvalidLength, "length field has leading zero")
		}
		if digitCount == 0 && b == '0' {
			leadingZero = true
		}

		digit := int(b - '0')
		// Checked before multiplying so a long digit run cannot overflow.
		if length > d.maxLength/10 || length*10 > d.maxLength-digit {
			return 0, ErrTooLarge
		}
		digitCount++
		length = length*10 + digit
	}
}

// readExact reads exactly n bytes from the stream. The buffer grows as
// bytes arrive, so a large declared length costs nothing until the payload
// actually shows up.
func (d *Decoder) readExact(n int) ([]byte, error) {
	payload := make([]byte, 0, min(n, readChunkSize))
	for i := 0; i < n; i++ {
		b, err := d.readByte()
		if err != nil {
			return nil, d.truncated(err, n, i)
		}
		payload = append(payload, b)
	}
	return payload, nil
}

// expectComma reads a byte and verifies it's a comma.
func (d *Decoder) expectComma() error {
	b, err := d.readByte()
	if err != nil {
		if err == io.EOF {
			return formatError(d.offset, ErrMissingComma, "unexpected EOF: expected ','")
		}
		return err
	}
	if b != ',' {
		return formatError(d.offset, ErrMissingComma,
			fmt.Sprintf("expected ',', got %q", rune(b)))
	}
	return nil
}

// truncated converts an EOF inside a payload into a format error.
func (d *Decoder) truncated(err error, want, got int) error {
	if err == io.EOF {
		return formatError(d.offset, ErrLengthTooBig,
			fmt.Sprintf("unexpected EOF: expected %d bytes, got %d", want, got))
	}
	return err
}

// readByte reads a single byte and tracks position for error reporting.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.offset++
	}
	return b, err
}

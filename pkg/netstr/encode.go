package netstr

import (
	"strconv"
)

// Append appends the netstring encoding of data to dst and returns the
// extended slice.
func Append(dst, data []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(data)), 10)
	dst = append(dst, ':')
	dst = append(dst, data...)
	return append(dst, ',')
}

// Encode returns data framed as a netstring.
//
// Example:
//
//	netstr.Encode([]byte("hello")) // "5:hello,"
//	netstr.Encode([]byte{})        // "0:,"
//
// A nil slice is rejected with ErrNilInput; pass an empty slice to encode an
// empty payload.
func Encode(data []byte) ([]byte, error) {
	if data == nil {
		return nil, ErrNilInput
	}
	return Append(make([]byte, 0, len(data)+12), data), nil
}

// Encode writes a standard netstring (no key) containing data.
//
// Example:
//
//	enc.Encode([]byte("hello")) // writes "5:hello,"
func (e *Encoder) Encode(data []byte) error {
	if data == nil {
		return ErrNilInput
	}
	_, err := e.w.Write(Append(nil, data))
	return err
}

// EncodeKeyed writes a keyed netstring with the given key and data.
//
// The key is prepended to the data as the first byte of the payload.
// The netstring format is: <length>:<key><data>,
//
// Example:
//
//	enc.EncodeKeyed('K', []byte("ok")) // writes "3:Kok,"
func (e *Encoder) EncodeKeyed(key byte, data []byte) error {
	payload := make([]byte, 0, 1+len(data))
	payload = append(payload, key)
	payload = append(payload, data...)

	_, err := e.w.Write(Append(nil, payload))
	return err
}

// EncodeString is a convenience method that encodes a string as a standard netstring.
func (e *Encoder) EncodeString(s string) error {
	return e.Encode([]byte(s))
}

// EncodeKeyedString is a convenience method that encodes a string as a keyed netstring.
func (e *Encoder) EncodeKeyedString(key byte, s string) error {
	return e.EncodeKeyed(key, []byte(s))
}

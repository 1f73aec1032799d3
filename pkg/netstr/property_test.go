package netstr

import (
	"bytes"
	"io"
	"testing"
	"testing/quick"
)

// Property: Decode(Encode(x)) == x
func TestProperty_RoundTrip(t *testing.T) {
	property := func(data []byte) bool {
		if data == nil {
			data = []byte{}
		}
		frame, err := Encode(data)
		if err != nil {
			t.Logf("encode failed: %v", err)
			return false
		}

		decoded, err := Decode(frame)
		if err != nil {
			t.Logf("decode failed: %v", err)
			return false
		}

		return bytes.Equal(decoded, data)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: the streaming Encoder and the whole-buffer Encode agree, and the
// streaming Decoder reads back what Encode produced.
func TestProperty_StreamingAgrees(t *testing.T) {
	property := func(data []byte) bool {
		if data == nil {
			data = []byte{}
		}
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Encode(data); err != nil {
			return false
		}

		frame, _ := Encode(data)
		if !bytes.Equal(buf.Bytes(), frame) {
			return false
		}

		decoded, err := NewDecoder(bytes.NewReader(frame)).Decode()
		if err != nil {
			return false
		}
		return bytes.Equal(decoded, data)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: encodeKeyed(k, x) -> decodeKeyed() == (k, x)
func TestProperty_RoundTripKeyed(t *testing.T) {
	property := func(key byte, data []byte) bool {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).EncodeKeyed(key, data); err != nil {
			return false
		}

		decodedKey, decodedValue, err := NewDecoder(bytes.NewReader(buf.Bytes())).DecodeKeyed()
		if err != nil {
			t.Logf("decode failed: %v", err)
			return false
		}

		return decodedKey == key && bytes.Equal(decodedValue, data)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: SplitAll on a concatenation returns every part in order.
func TestProperty_SplitAllConcatenation(t *testing.T) {
	property := func(parts [][]byte) bool {
		var joined []byte
		for i := range parts {
			if parts[i] == nil {
				parts[i] = []byte{}
			}
			joined = Append(joined, parts[i])
		}
		if joined == nil {
			joined = []byte{}
		}

		split, err := SplitAll(joined)
		if err != nil {
			t.Logf("split failed: %v", err)
			return false
		}
		if len(split) != len(parts) {
			return false
		}
		for i := range parts {
			if !bytes.Equal(split[i], parts[i]) {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: any strict prefix of a valid frame is rejected.
func TestProperty_IncompleteDataFails(t *testing.T) {
	property := func(data []byte, cut uint8) bool {
		if data == nil {
			data = []byte{}
		}
		frame, _ := Encode(data)
		n := int(cut) % len(frame)

		if _, err := Decode(frame[:n]); err == nil {
			return false
		}

		_, err := NewDecoder(bytes.NewReader(frame[:n])).Decode()
		if n == 0 {
			return err == io.EOF
		}
		return err != nil && err != io.EOF
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: MaxLength rejects lengths beyond the limit and accepts the rest.
func TestProperty_MaxLengthEnforcement(t *testing.T) {
	property := func(data []byte, limit uint8) bool {
		if data == nil {
			data = []byte{}
		}
		frame, _ := Encode(data)
		_, err := NewDecoder(bytes.NewReader(frame), MaxLength(int(limit))).Decode()
		if len(data) > int(limit) {
			return err == ErrTooLarge
		}
		return err == nil
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

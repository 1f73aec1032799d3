package qmqp

import "fmt"

// ReturnCode is the single character status of a QMQP response.
type ReturnCode byte

const (
	// OK means the message was accepted for delivery.
	OK ReturnCode = 'K'
	// TempFail means the message was not accepted but may be retried later.
	TempFail ReturnCode = 'Z'
	// PermFail means the message was rejected permanently.
	PermFail ReturnCode = 'D'
)

// ParseReturnCode maps a wire byte to its ReturnCode.
func ParseReturnCode(b byte) (ReturnCode, error) {
	switch rc := ReturnCode(b); rc {
	case OK, TempFail, PermFail:
		return rc, nil
	default:
		return 0, &ProtocolError{
			Kind:   ErrUnknownReturnCode,
			Reason: fmt.Sprintf("unknown return code %q", rune(b)),
		}
	}
}

// Valid reports whether rc is one of OK, TempFail or PermFail.
func (rc ReturnCode) Valid() bool {
	return rc == OK || rc == TempFail || rc == PermFail
}

func (rc ReturnCode) String() string {
	switch rc {
	case OK:
		return "OK"
	case TempFail:
		return "TEMP_FAIL"
	case PermFail:
		return "PERM_FAIL"
	default:
		return fmt.Sprintf("ReturnCode(%q)", rune(rc))
	}
}

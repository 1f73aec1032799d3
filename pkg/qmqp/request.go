package qmqp

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Request is a message plus its envelope, ready to be queued.
//
// A Request is immutable: NewRequest copies its arguments and the accessors
// return copies, so a Request can be shared between goroutines.
type Request struct {
	message    []byte
	sender     string
	recipients []string
}

// NewRequest creates a request from a raw message, the envelope sender and
// at least one envelope recipient. Sender and recipients should be bare
// addresses and must be 7-bit ASCII.
//
// The message is stored as given; line endings are normalized when the
// request is encoded. A nil message is treated as empty.
func NewRequest(message []byte, sender string, recipients ...string) (Request, error) {
	if err := validateEnvelope(sender, recipients); err != nil {
		return Request{}, err
	}

	msg := make([]byte, len(message))
	copy(msg, message)

	return Request{
		message:    msg,
		sender:     sender,
		recipients: slices.Clone(recipients),
	}, nil
}

// Message returns a copy of the raw message.
func (r Request) Message() []byte {
	return bytes.Clone(r.message)
}

// Sender returns the envelope sender.
func (r Request) Sender() string {
	return r.sender
}

// Recipients returns a copy of the envelope recipients.
func (r Request) Recipients() []string {
	return slices.Clone(r.recipients)
}

// IsZero reports whether r is the zero Request, which is not a valid
// request and cannot be encoded.
func (r Request) IsZero() bool {
	return r.message == nil && r.sender == "" && r.recipients == nil
}

func validateEnvelope(sender string, recipients []string) error {
	if sender == "" {
		return ErrEmptySender
	}
	if !isASCII(sender) {
		return fmt.Errorf("sender %q: %w", sender, ErrNonASCII)
	}
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	for i, rcpt := range recipients {
		if !isASCII(rcpt) {
			return fmt.Errorf("recipient %d %q: %w", i, rcpt, ErrNonASCII)
		}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

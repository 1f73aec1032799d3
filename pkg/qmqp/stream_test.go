package qmqp

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/epithet-ssh/qmqp/pkg/netstr"
	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	r, err := NewRequest([]byte("hello\r\n"), "bar@baz", "foo@example.org")
	require.NoError(t, err)
	frame, err := EncodeRequest(r)
	require.NoError(t, err)

	// Bytes after the frame belong to the next reader and are left alone.
	src := io.MultiReader(bytes.NewReader(frame), strings.NewReader("extra"))

	got, err := ReadRequest(src)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(got.Message()))
	require.Equal(t, "bar@baz", got.Sender())
	require.Equal(t, []string{"foo@example.org"}, got.Recipients())
}

func TestReadRequest_EOF(t *testing.T) {
	_, err := ReadRequest(strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadRequest_Truncated(t *testing.T) {
	_, err := ReadRequest(strings.NewReader("30:0:,1:s,"))
	require.ErrorIs(t, err, netstr.ErrInvalidFormat)
}

func TestReadRequest_MaxLength(t *testing.T) {
	r, err := NewRequest(bytes.Repeat([]byte("x"), 100), "bar@baz", "foo@example.org")
	require.NoError(t, err)
	frame, err := EncodeRequest(r)
	require.NoError(t, err)

	_, err = ReadRequest(bytes.NewReader(frame), netstr.MaxLength(50))
	require.ErrorIs(t, err, netstr.ErrTooLarge)
}

func TestWriteResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, NewResponse(OK, "bar@baz")))
	require.Equal(t, "8:Kbar@baz,", buf.String())

	buf.Reset()
	require.Error(t, WriteResponse(&buf, NewResponse('?', "")))
	require.Zero(t, buf.Len())
}

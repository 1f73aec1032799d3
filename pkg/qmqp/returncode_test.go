package qmqp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReturnCode(t *testing.T) {
	for b, want := range map[byte]ReturnCode{'K': OK, 'Z': TempFail, 'D': PermFail} {
		rc, err := ParseReturnCode(b)
		require.NoError(t, err)
		require.Equal(t, want, rc)
		require.Equal(t, b, byte(rc))
	}
}

func TestParseReturnCode_Unknown(t *testing.T) {
	for _, b := range []byte{'k', 'X', 0, 0xC3} {
		_, err := ParseReturnCode(b)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrUnknownReturnCode))

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
	}
}

func TestReturnCode_String(t *testing.T) {
	require.Equal(t, "OK", OK.String())
	require.Equal(t, "TEMP_FAIL", TempFail.String())
	require.Equal(t, "PERM_FAIL", PermFail.String())
	require.Equal(t, "ReturnCode('X')", ReturnCode('X').String())
}

func TestReturnCode_Valid(t *testing.T) {
	require.True(t, OK.Valid())
	require.True(t, TempFail.Valid())
	require.True(t, PermFail.Valid())
	require.False(t, ReturnCode(0).Valid())
}

package toolwire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientError(t *testing.T) {
	tests := []struct {
		name   string
		err    *ClientError
		expect string
	}{
		{"with reason", &ClientError{Reason: "bad enum"}, "invalid tool call: bad enum"},
		{"empty reason", &ClientError{Reason: ""}, "invalid tool call: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func TestSystemError(t *testing.T) {
	inner := errors.New("extractor crashed")
	err := &SystemError{Err: inner}
	assert.Equal(t, "internal error during tool call decoding", err.Error())
	assert.Same(t, inner, err.Unwrap())
}

func TestExtractError(t *testing.T) {
	inner := errors.New("unterminated")
	err := &ExtractError{Format: FormatXML, Tool: "readFile", Err: inner}
	assert.Equal(t, `xml extraction failed for "readFile": unterminated`, err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "backtick extraction failed: unterminated", (&ExtractError{Format: FormatBacktick, Err: inner}).Error())
}

func TestIsClientError(t *testing.T) {
	require.True(t, IsClientError(&ClientError{Reason: "x"}))
	require.False(t, IsClientError(&SystemError{Err: errors.New("x")}))
	require.False(t, IsClientError(ErrToolNotFound))
	require.True(t, IsClientError(wrapErr{err: &ClientError{Reason: "y"}}))
}

func TestIsSystemError(t *testing.T) {
	require.True(t, IsSystemError(&SystemError{Err: errors.New("x")}))
	require.True(t, IsSystemError(wrapErr{err: &SystemError{Err: ErrValidation}}))
	require.False(t, IsSystemError(&ClientError{Reason: "x"}))
}

type wrapErr struct {
	err error
}

func (e wrapErr) Error() string { return "wrap: " + e.err.Error() }
func (e wrapErr) Unwrap() error { return e.err }

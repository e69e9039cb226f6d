package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotifyError
		expected string
	}{
		{
			name:     "code and message",
			err:      New(ErrValidationFailed, "bad input"),
			expected: "[VAL001] bad input",
		},
		{
			name:     "with platform",
			err:      NewPlatformError(ErrUnexpectedStatus, "slack", "unexpected status 500"),
			expected: "[PLT008] slack: unexpected status 500",
		},
		{
			name:     "with details and cause",
			err:      Wrap(errors.New("boom"), ErrMessageSendFailed, "smtp failed").WithDetails("relay"),
			expected: "[MSG005] smtp failed: relay: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNotifyError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, ErrNetworkConnection, "request failed").WithPlatform("webhook")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCode(wrapped, ErrNetworkConnection))
	assert.False(t, HasCode(wrapped, ErrNonSuccessExit))
	assert.True(t, errors.Is(wrapped, New(ErrNetworkConnection, "")))

	code, ok := CodeOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNetworkConnection, code)
	assert.Equal(t, "webhook", PlatformOf(wrapped))

	_, ok = CodeOf(cause)
	assert.False(t, ok)
}

func TestGetErrorInfo(t *testing.T) {
	assert.Equal(t, SystemCategory, GetCategory(ErrNonSuccessExit))
	assert.Equal(t, ValidationCategory, GetCategory(ErrUnknownParseMode))
	assert.Equal(t, "UNKNOWN", GetErrorInfo("XXX999").Category)
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator()
	agg.Add(nil)
	assert.False(t, agg.HasErrors())
	assert.NoError(t, agg.ToError())

	first := NewPlatformError(ErrUnexpectedStatus, "slack", "status 500")
	agg.Add(first)
	assert.Equal(t, 1, agg.Count())
	assert.Same(t, first, agg.ToError())

	second := NewPlatformError(ErrNonSuccessExit, "command", "exit 1")
	agg.Add(second)
	assert.Equal(t, 2, agg.Count())

	err := agg.ToError()
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrInternalError))
	assert.ErrorIs(t, err, second)
	assert.Contains(t, err.Error(), "2 failures")
	assert.Len(t, agg.Errors(), 2)
}

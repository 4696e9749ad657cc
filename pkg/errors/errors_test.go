package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "server detail passes through",
			err:      NewRejectedError(400, "Appointment is not in scheduled state"),
			fallback: "Failed to cancel appointment",
			want:     "Appointment is not in scheduled state",
		},
		{
			name:     "transport error uses fallback",
			err:      NewTransportError("request failed", errors.New("dial tcp: refused")),
			fallback: "Failed to load appointments",
			want:     "Failed to load appointments",
		},
		{
			name:     "5xx with detail passes through",
			err:      &AppError{Type: ErrorTypeExternal, Message: "Zoom is unavailable", StatusCode: 502},
			fallback: "Failed to start consultation",
			want:     "Zoom is unavailable",
		},
		{
			name:     "field validation",
			err:      NewFieldValidationError(map[string]string{"password": "must be at least 6 characters", "email": "is required"}),
			fallback: "x",
			want:     "email: is required; password: must be at least 6 characters",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			fallback: "Something went wrong",
			want:     "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("cancel: %w", NewConflictError("already started"))
	assert.True(t, IsType(wrapped, ErrorTypeConflict))
	assert.False(t, IsType(wrapped, ErrorTypeRejected))
	assert.False(t, IsType(errors.New("x"), ErrorTypeConflict))
}

func TestAppError_Error(t *testing.T) {
	err := NewTransportError("request failed", errors.New("timeout"))
	assert.Equal(t, "TRANSPORT: request failed: timeout", err.Error())
	assert.ErrorIs(t, err, err.Err)
}

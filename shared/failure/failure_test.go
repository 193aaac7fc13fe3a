package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"airpark/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "bad request from error",
			err:     failure.BadRequest(errors.New("start_date is required")),
			code:    http.StatusBadRequest,
			message: "start_date is required",
		},
		{
			name:    "bad request from string",
			err:     failure.BadRequestFromString("invalid window"),
			code:    http.StatusBadRequest,
			message: "invalid window",
		},
		{
			name:    "unauthorized",
			err:     failure.Unauthorized("invalid cron secret"),
			code:    http.StatusUnauthorized,
			message: "invalid cron secret",
		},
		{
			name:    "not found",
			err:     failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			message: "booking not found",
		},
		{
			name:    "internal error",
			err:     failure.InternalError(errors.New("connection refused")),
			code:    http.StatusInternalServerError,
			message: "connection refused",
		},
		{
			name:    "capacity exceeded",
			err:     failure.CapacityExceededError,
			code:    http.StatusConflict,
			message: "no parking spots left for the requested period",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure

			assert.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
		client   bool
	}{
		{
			name:     "failure error",
			input:    failure.NotFound("missing"),
			expected: http.StatusNotFound,
			client:   true,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("create booking: %w", failure.CapacityExceededError),
			expected: http.StatusConflict,
			client:   true,
		},
		{
			name:     "internal failure",
			input:    failure.InternalError(errors.New("disk full")),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
			assert.Equal(t, tt.client, failure.IsClientError(tt.input))
		})
	}
}

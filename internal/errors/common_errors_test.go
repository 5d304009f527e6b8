package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "lookup error type", errType: ErrTypeLookup, expected: "LOOKUP"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewAppError(ErrTypeValidation, "invalid mode", nil),
			wantMessage: "[VALIDATION] invalid mode",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to write submission", errors.New("disk full")),
			wantMessage: "[STORAGE] failed to write submission: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("key not found")
	err := fmt.Errorf("partition: %w", NewLookupError("shop 5 item 10", sentinel))

	assert.True(t, errors.Is(err, sentinel))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeLookup, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad header"}
	err.WithContext("file", "test.csv").WithContext("line", 1)

	assert.Equal(t, "test.csv", err.Context["file"])
	assert.Equal(t, 1, err.Context["line"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "not found", err: NewNotFoundError("feature set", fs.ErrNotExist), want: ErrTypeNotFound},
		{name: "wrapped config", err: fmt.Errorf("load: %w", NewConfigError("bad", nil)), want: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
			assert.Equal(t, tt.want != "", IsType(tt.err, tt.want) && tt.want != "")
		})
	}
}

func TestNewNotFoundError_KeepsCause(t *testing.T) {
	err := NewNotFoundError("feature set", fs.ErrNotExist)

	assert.Equal(t, "[NOT_FOUND] feature set not found: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

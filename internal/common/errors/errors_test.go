// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("standard error passes through wrapping", func(t *testing.T) {
		orig := NewProfileNotFoundError("brand", "b-1")
		wrapped := fmt.Errorf("load pair: %w", orig)

		got := Normalize(wrapped)
		assert.Same(t, orig, got)
		assert.Equal(t, ErrCodeProfileNotFound, CodeOf(wrapped))
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := Normalize(stderrors.New("kaboom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.False(t, got.Retryable)
		assert.Equal(t, "kaboom", got.Details)
	})
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewQueryExecutionFailedError("list brands", cause)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Details, "list brands")
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantRetries int
	}{
		{"retryable insert", NewDatabaseInsertFailedError(stderrors.New("x")), 3},
		{"timeout", NewSearchTimeoutError(), 2},
		{"business", NewInvalidTransitionError("new", "matched"), 0},
		{"validation", NewValidationFailedError(map[string]string{"brandName": "Brand name is required"}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestValidationErrorCarriesFieldErrors(t *testing.T) {
	fields := map[string]string{"contactEmail": "Please enter a valid email address"}
	bpmn := ConvertToBPMNError(NewValidationFailedError(fields))

	vars := bpmn.ToErrorVariables()
	require.Contains(t, vars, "fieldErrors")
	assert.Equal(t, fields, vars["fieldErrors"])
	assert.Equal(t, "VALIDATION_FAILED", vars["errorCode"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexingFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeSessionInvalid))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeForbidden))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeMatchBelowCutoff))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeParseError))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInvalidTransition))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeForbidden))
}

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{name: "business error", err: NewOrderNotFoundError("ORD_1"), expectedCode: "ORDER_NOT_FOUND", expectedRetries: 0},
		{name: "transient error", err: NewMenuFetchFailedError(stderrors.New("redis down")), expectedCode: "MENU_FETCH_FAILED", expectedRetries: 3},
		{name: "timeout", err: NewQueryTimeoutError("recent_orders"), expectedCode: "QUERY_TIMEOUT", expectedRetries: 2},
		{name: "unmapped code", err: &StandardError{Code: "SOMETHING_ELSE", Retryable: true}, expectedCode: "SOMETHING_ELSE", expectedRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewNoItemsFoundError("I want 2 xyzzy").WithMetadata("response", "Please specify what you'd like to order.")

	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "Please specify what you'd like to order.", vars["response"])
	assert.Equal(t, "NO_ITEMS_FOUND", vars["errorCode"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("place order: %w", NewNoValidMenuItemsError([]string{"Sushi"}))

	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeNoValidMenuItems, stdErr.Code)
	assert.Contains(t, stdErr.Details, "Sushi")

	internal := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.False(t, internal.Retryable)
}

func TestAsStandardError(t *testing.T) {
	_, ok := AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)

	stdErr, ok := AsStandardError(fmt.Errorf("x: %w", NewMessageRequiredError()))
	require.True(t, ok)
	assert.Equal(t, ErrCodeMessageRequired, stdErr.Code)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeOrderNotFound:          "ORDERING",
		ErrCodeInvalidOrderStatus:     "ORDERING",
		ErrCodeNoValidMenuItems:       "ORDERING",
		ErrCodeMessageRequired:        "ORDERING",
		ErrCodeMenuFetchFailed:        "MENU",
		ErrCodeQueryTimeout:           "DATABASE",
		ErrCodeInvalidQueryType:       "DATABASE",
		ErrCodeIndexNotFound:          "SEARCH",
		ErrCodeChatLogFailed:          "SEARCH",
		ErrCodeNotificationSendFailed: "NOTIFICATION",
		ErrCodeZeroShotUnavailable:    "AI",
		ErrCodeInputValidationFailed:  "VALIDATION",
		ErrCodeInternal:               "OTHER",
	}

	for code, expected := range tests {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, expected, GetErrorCategory(code))
		})
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseInsertFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeNoItemsFound))
}

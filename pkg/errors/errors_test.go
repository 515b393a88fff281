package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("row missing")
	appErr := &AppError{Code: "NOT_FOUND", Message: "user gone", Status: http.StatusNotFound, Err: cause}

	assert.Equal(t, "NOT_FOUND: user gone: row missing", appErr.Error())
	assert.Equal(t, cause, errors.Unwrap(appErr))

	noWrap := &AppError{Code: "CONFLICT", Message: "duplicate"}
	assert.Equal(t, "CONFLICT: duplicate", noWrap.Error())
}

func TestConstructors_SentinelClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", NotFound("user", "u-1"), ErrNotFound, http.StatusNotFound},
		{"already exists", AlreadyExists("user", "email", "a@b.co"), ErrAlreadyExists, http.StatusConflict},
		{"conflict", Conflict("wishlist row exists"), ErrConflict, http.StatusConflict},
		{"invalid input", InvalidInput("email is required"), ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("bad credentials"), ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("row policy rejected insert"), ErrForbidden, http.StatusForbidden},
		{"unconfigured", Unconfigured("remote store"), ErrUnconfigured, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("fetch profile: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrap_PreservesClassification(t *testing.T) {
	err := Wrap(NotFound("product", "p-1"), "load product")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "load product")
}

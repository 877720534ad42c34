package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypePredicates(t *testing.T) {
	notFound := NewNotFoundError("user missing", nil)
	rateLimit := NewRateLimitError("quota exhausted", nil)
	upstream := NewUpstreamError("bad gateway", nil)
	validation := NewValidationError("bad handle", nil)

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(rateLimit))
	assert.True(t, IsRateLimit(rateLimit))
	assert.True(t, IsUpstream(upstream))
	assert.True(t, IsValidationError(validation))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	err := NewNotFoundError("user missing", nil)
	assert.Equal(t, "user missing", err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewUpstreamError("GitHub API request failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{NewNotFoundError("", nil), http.StatusNotFound},
		{NewRateLimitError("", nil), http.StatusForbidden},
		{NewValidationError("", nil), http.StatusBadRequest},
		{NewUpstreamError("", nil), http.StatusInternalServerError},
		{NewInternalError("", nil), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusCode(tt.err))
	}
}

func TestStatusCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("fetching repos: %w", NewNotFoundError("user missing", nil))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.True(t, IsNotFound(err))
}

func TestWrapf(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "context"))

	wrapped := Wrapf(NewRateLimitError("quota exhausted", nil), "ranking %s", "octocat")
	assert.True(t, IsRateLimit(wrapped))
	assert.Contains(t, wrapped.Error(), "octocat")

	plain := Wrapf(stderrors.New("boom"), "doing work")
	assert.Contains(t, plain.Error(), "doing work")
}

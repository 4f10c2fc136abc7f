package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		status   int
	}{
		{NotFound("review", "7"), ErrNotFound, http.StatusNotFound},
		{InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{Unauthorized("nope"), ErrUnauthorized, http.StatusUnauthorized},
		{Forbidden("nope"), ErrForbidden, http.StatusForbidden},
		{Conflict("dupe"), ErrConflict, http.StatusConflict},
		{Unavailable(errors.New("dial tcp: refused")), ErrServiceUnavail, http.StatusServiceUnavailable},
		{Upstream(502, "bad gateway", nil), ErrUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.sentinel)
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
	}
}

func TestUpstream_CarriesDetails(t *testing.T) {
	err := Upstream(422, "validation failed", []string{"Rating is required", "Title is too long"})

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"Rating is required", "Title is too long"}, appErr.Details)
	assert.Equal(t, "validation failed", appErr.Message)
}

func TestUpstream_NormalizesSuccessStatus(t *testing.T) {
	// A 200 body with success=false still has to map to an error status.
	err := Upstream(200, "something went wrong", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
}

func TestUpstream_DefaultMessage(t *testing.T) {
	err := Upstream(500, "", nil)
	assert.Equal(t, "remote api returned status 500", err.Message)
}

func TestHTTPStatus_PlainErrors(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Wrap(ErrNotFound, "loading review")))
}

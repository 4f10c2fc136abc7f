package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readiness(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_AllUp(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(context.Context) error { return nil })

	code, resp := readiness(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
}

func TestReadiness_CriticalFailureIsDown(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	code, resp := readiness(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
}

func TestReadiness_NonCriticalFailureDegrades(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(context.Context) error { return nil })
	h.RegisterNonCritical("upstream_api", func(context.Context) error { return errors.New("timeout") })

	code, resp := readiness(t, h)

	// A flapping remote API must not take the frontend out of rotation.
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["upstream_api"].Status)
}

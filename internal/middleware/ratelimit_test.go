package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	handler := RateLimit(context.Background(), 100, 100, testLogger())(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	handler := RateLimit(context.Background(), 1, 2, testLogger())(okHandler())

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Contains(t, statuses, http.StatusTooManyRequests)
}

func TestRateLimit_SeparateBucketsPerIP(t *testing.T) {
	handler := RateLimit(context.Background(), 1, 1, testLogger())(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1")
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.2")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// First IP is out of budget; a different IP still gets through.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisitorStore_SweepsIdleBuckets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newVisitorStore(ctx, 1, 1, time.Minute)
	now := time.Now()
	store.nowFunc = func() time.Time { return now }

	store.getVisitor("10.0.0.1")
	store.getVisitor("10.0.0.2")
	require.Equal(t, 2, store.len())

	// One bucket stays busy past the other's TTL.
	now = now.Add(45 * time.Second)
	store.getVisitor("10.0.0.1")
	now = now.Add(30 * time.Second)
	store.cleanup()

	assert.Equal(t, 1, store.len(), "only the idle bucket is evicted")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.5:4242"
	assert.Equal(t, "192.168.1.5", clientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientIP(r))

	r.Header.Set("X-Forwarded-For", "198.51.100.2, 203.0.113.9")
	assert.Equal(t, "198.51.100.2", clientIP(r))
}

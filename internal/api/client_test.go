package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
)

// plainTransport satisfies Transport over the default HTTP client, without
// retries, so tests observe exactly one request per call.
type plainTransport struct{}

func (plainTransport) Do(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func (plainTransport) DoOnce(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

type staticTokens struct{ token string }

func (s staticTokens) Token(context.Context) (string, error) { return s.token, nil }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, plainTransport{}, newTestLogger())
}

func TestClient_ListReviews_DecodesEnvelopeAndMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/9/reviews", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "newest", r.URL.Query().Get("sort_by"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"reviews": [{"id": 1, "rating": 5, "review_title": "Great"}],
				"statistics": {"total_reviews": 21, "average_rating": "4.3"}
			},
			"meta": {"current_page": 2, "per_page": 10, "total_count": 21, "total_pages": 3}
		}`))
	})

	page, err := client.ListReviews(context.Background(), 9, ReviewListQuery{Page: 2, PerPage: 10, SortBy: "newest"})

	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, int64(1), page.Reviews[0].ID)
	require.NotNil(t, page.Statistics)
	assert.Equal(t, 21, page.Statistics.TotalReviews)
	assert.InDelta(t, 4.3, page.Statistics.AverageRating.Value(), 0.001)
	require.NotNil(t, page.Meta)
	assert.True(t, page.Meta.HasMore())
}

func TestClient_BearerHeader(t *testing.T) {
	var gotAuth string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success": true, "data": {}}`))
	}

	base := newTestClient(t, handler)

	// Session has a token: header carries it.
	withToken := base.WithSession(staticTokens{token: "tok-123"}, nil)
	_, err := withToken.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// Empty token: no header at all.
	withoutToken := base.WithSession(staticTokens{}, nil)
	_, err = withoutToken.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedFiresHookOnce(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "message": "token expired"}`))
	})

	hookCalls := 0
	bound := client.WithSession(staticTokens{token: "stale"}, func(context.Context) {
		hookCalls++
	})

	_, err := bound.Me(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, 1, hookCalls, "hook must fire exactly once per 401")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "token expired", appErr.Message)
}

func TestClient_EnvelopeFailureOnSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "validation failed", "errors": ["Rating must be between 1 and 5"]}`))
	})

	_, err := client.GetReview(context.Background(), 1, 2)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "validation failed", appErr.Message)
	assert.Equal(t, []string{"Rating must be between 1 and 5"}, appErr.Details)
}

func TestClient_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success": false, "message": "upstream exploded"}`))
	})

	_, err := client.GetBusiness(context.Background(), 5)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestClient_TransportError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := New(srv.URL, plainTransport{}, newTestLogger())

	_, err := client.GetBusiness(context.Background(), 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestClient_MarkHelpfulReturnsCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/businesses/3/reviews/7/helpful", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": {"helpful_count": 12}}`))
	})

	count, err := client.MarkHelpful(context.Background(), 3, 7)

	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestMeta_HasMore(t *testing.T) {
	var nilMeta *Meta
	assert.False(t, nilMeta.HasMore())
	assert.True(t, (&Meta{CurrentPage: 1, TotalPages: 2}).HasMore())
	assert.False(t, (&Meta{CurrentPage: 2, TotalPages: 2}).HasMore())
}

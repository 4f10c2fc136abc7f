package review

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/domain"
	"github.com/Asim1921/Jodi-frontend/internal/session"
	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
)

type plainTransport struct{}

func (plainTransport) Do(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func (plainTransport) DoOnce(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// upstream is a scripted remote API for controller tests. It serves review
// pages keyed by page number and counts requests per path suffix.
type upstream struct {
	t        *testing.T
	pages    map[string][]domain.Review
	stats    domain.ReviewStatistics
	requests atomic.Int64
	lastURL  atomic.Value // string
}

func (u *upstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		u.lastURL.Store(r.URL.String())
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/reviews/statistics"):
			writeEnvelope(w, u.stats, nil)
		case strings.HasSuffix(r.URL.Path, "/helpful"):
			writeEnvelope(w, map[string]int{"helpful_count": 99}, nil)
		case r.Method == http.MethodDelete:
			writeEnvelope(w, nil, nil)
		default:
			page := r.URL.Query().Get("page")
			reviews := u.pages[page]
			writeEnvelope(w, map[string]any{"reviews": reviews}, &api.Meta{
				CurrentPage: atoiOr(page, 1),
				PerPage:     10,
				TotalCount:  25,
				TotalPages:  3,
			})
		}
	}
}

func atoiOr(s string, def int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return def
	}
	return n
}

func writeEnvelope(w http.ResponseWriter, data any, meta *api.Meta) {
	env := map[string]any{"success": true}
	if data != nil {
		env["data"] = data
	}
	if meta != nil {
		env["meta"] = meta
	}
	_ = json.NewEncoder(w).Encode(env)
}

func rev(id int64, authorID int64) domain.Review {
	return domain.Review{
		ID:     id,
		Rating: 4,
		Title:  fmt.Sprintf("Review %d", id),
		Text:   "Solid work from start to finish.",
		Author: domain.ReviewAuthor{ID: authorID, Name: "Reviewer"},
	}
}

func newTestController(t *testing.T, u *upstream, viewer *domain.User) *Controller {
	t.Helper()
	srv := httptest.NewServer(u.handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, plainTransport{}, newTestLogger())
	identity := func() *domain.User { return viewer }
	return NewController(1, client, session.NewVotes(), identity, 10, newTestLogger())
}

func TestController_FetchPageOneReplaces(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{
		"1": {rev(1, 10), rev(2, 20)},
	}}
	c := newTestController(t, u, nil)

	require.NoError(t, c.Fetch(context.Background(), 1))
	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 2)
	assert.Equal(t, 1, snap.Page)
	assert.True(t, snap.HasMore)

	// A second page-1 fetch replaces, never duplicates.
	require.NoError(t, c.Fetch(context.Background(), 1))
	assert.Len(t, c.Snapshot().Reviews, 2)
}

func TestController_FetchLaterPageAppends(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{
		"1": {rev(1, 10), rev(2, 20)},
		"2": {rev(3, 30)},
	}}
	c := newTestController(t, u, nil)

	require.NoError(t, c.Fetch(context.Background(), 1))
	require.NoError(t, c.Fetch(context.Background(), 2))

	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 3)
	assert.Equal(t, int64(1), snap.Reviews[0].ID)
	assert.Equal(t, int64(3), snap.Reviews[2].ID)
	assert.Equal(t, 2, snap.Page)
}

func TestController_ApplyFiltersResetsToPageOne(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{
		"1": {rev(1, 10), rev(2, 20)},
		"2": {rev(3, 30)},
	}}
	c := newTestController(t, u, nil)

	require.NoError(t, c.Fetch(context.Background(), 1))
	require.NoError(t, c.Fetch(context.Background(), 2))
	require.Len(t, c.Snapshot().Reviews, 3)

	five := 5
	require.NoError(t, c.ApplyFilters(context.Background(), Filters{Rating: &five, SortBy: SortNewest}))

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Page, "filter change resets pagination")
	assert.Len(t, snap.Reviews, 2, "replaced, not appended")
	assert.Contains(t, u.lastURL.Load().(string), "rating=5")
}

func TestController_StaleFetchDiscardedAfterFilterChange(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("rating") == "" {
			// The unfiltered page hangs until the filtered fetch has landed.
			close(started)
			<-release
			writeEnvelope(w, map[string]any{"reviews": []domain.Review{rev(1, 10), rev(2, 20)}}, &api.Meta{
				CurrentPage: 1, PerPage: 10, TotalCount: 25, TotalPages: 3,
			})
			return
		}
		writeEnvelope(w, map[string]any{"reviews": []domain.Review{rev(9, 90)}}, &api.Meta{
			CurrentPage: 1, PerPage: 10, TotalCount: 1, TotalPages: 1,
		})
	}))
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, plainTransport{}, newTestLogger())
	c := NewController(1, client, session.NewVotes(), func() *domain.User { return nil }, 10, newTestLogger())

	done := make(chan error, 1)
	go func() { done <- c.Fetch(context.Background(), 1) }()
	<-started

	five := 5
	require.NoError(t, c.ApplyFilters(context.Background(), Filters{Rating: &five, SortBy: SortNewest}))

	close(release)
	require.NoError(t, <-done, "a discarded response is not an error")

	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 1, "out-of-order response must not overwrite the filtered list")
	assert.Equal(t, int64(9), snap.Reviews[0].ID)
	assert.Equal(t, 1, snap.Page)
	assert.False(t, snap.HasMore, "pagination meta from the stale response is ignored")
}

func TestController_ApplyFiltersIdenticalTupleIsNoOp(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, nil)

	require.NoError(t, c.Fetch(context.Background(), 1))
	before := u.requests.Load()

	require.NoError(t, c.ApplyFilters(context.Background(), Filters{SortBy: SortNewest}))
	assert.Equal(t, before, u.requests.Load(), "identical tuple must not refetch")
}

func TestController_AcceptSubmitted_PrependsNew(t *testing.T) {
	u := &upstream{
		pages: map[string][]domain.Review{"1": {rev(1, 10)}},
		stats: domain.ReviewStatistics{TotalReviews: 2},
	}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))

	c.AcceptSubmitted(context.Background(), rev(50, 77))

	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 2)
	assert.Equal(t, int64(50), snap.Reviews[0].ID, "new review goes first")
	require.NotNil(t, snap.Statistics)
	assert.Equal(t, 2, snap.Statistics.TotalReviews, "statistics refetched from server")
}

func TestController_AcceptSubmitted_ReplacesEdited(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10), rev(2, 20)}}}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))

	edited := rev(2, 20)
	edited.Title = "Updated title"
	c.AcceptSubmitted(context.Background(), edited)

	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 2, "edit replaces in place")
	assert.Equal(t, int64(1), snap.Reviews[0].ID, "position preserved")
	assert.Equal(t, "Updated title", snap.Reviews[1].Title)
}

func TestController_DeleteRequiresConfirmation(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))
	before := u.requests.Load()

	err := c.Delete(context.Background(), 1, false)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, before, u.requests.Load(), "no request without confirmation")
	assert.Len(t, c.Snapshot().Reviews, 1)
}

func TestController_DeleteConfirmed(t *testing.T) {
	u := &upstream{
		pages: map[string][]domain.Review{"1": {rev(1, 10), rev(2, 20)}},
		stats: domain.ReviewStatistics{TotalReviews: 1},
	}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))

	require.NoError(t, c.Delete(context.Background(), 1, true))

	snap := c.Snapshot()
	require.Len(t, snap.Reviews, 1)
	assert.Equal(t, int64(2), snap.Reviews[0].ID)
	require.NotNil(t, snap.Statistics)
	assert.Equal(t, 1, snap.Statistics.TotalReviews)
}

func TestController_MarkHelpful(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	viewer := &domain.User{ID: 99}
	c := newTestController(t, u, viewer)
	require.NoError(t, c.Fetch(context.Background(), 1))

	count, err := c.MarkHelpful(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 99, count)
	assert.Equal(t, 99, c.Snapshot().Reviews[0].HelpfulCount, "counter updated from server value")
}

func TestController_MarkHelpful_SecondVoteRejectedLocally(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, &domain.User{ID: 99})
	require.NoError(t, c.Fetch(context.Background(), 1))

	_, err := c.MarkHelpful(context.Background(), 1)
	require.NoError(t, err)
	before := u.requests.Load()

	_, err = c.MarkHelpful(context.Background(), 1)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, before, u.requests.Load(), "repeat vote never reaches the network")
	assert.Equal(t, 99, c.Snapshot().Reviews[0].HelpfulCount, "counter unchanged")
}

func TestController_MarkHelpful_OwnReviewRejected(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, &domain.User{ID: 10})
	require.NoError(t, c.Fetch(context.Background(), 1))
	before := u.requests.Load()

	_, err := c.MarkHelpful(context.Background(), 1)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, before, u.requests.Load())
}

func TestController_MarkHelpful_UnknownReview(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))

	_, err := c.MarkHelpful(context.Background(), 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestController_UserReview(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10), rev(2, 20)}}}
	c := newTestController(t, u, &domain.User{ID: 20})
	require.NoError(t, c.Fetch(context.Background(), 1))

	own := c.UserReview()
	require.NotNil(t, own)
	assert.Equal(t, int64(2), own.ID)
}

func TestController_UserReview_Unauthenticated(t *testing.T) {
	u := &upstream{pages: map[string][]domain.Review{"1": {rev(1, 10)}}}
	c := newTestController(t, u, nil)
	require.NoError(t, c.Fetch(context.Background(), 1))

	assert.Nil(t, c.UserReview())
}

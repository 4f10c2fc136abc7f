package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	newStore := func(ctx context.Context, storage Storage) (*Store, error) {
		return &Store{state: StateUnauthenticated, storage: storage, logger: newTestLogger()}, nil
	}
	return NewManager(context.Background(), "test-secret", time.Hour, false, nil, newStore, newTestLogger())
}

func TestManager_MintsCookieForNewVisitor(t *testing.T) {
	mgr := newTestManager(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, err := mgr.Session(rec, req)

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)
	assert.NotNil(t, sess.Store)
	assert.NotNil(t, sess.Votes)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestManager_ReturningVisitorKeepsSession(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	first, err := mgr.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := rec.Result().Cookies()[0]

	first.Votes.MarkVoted(42)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second, err := mgr.Session(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Votes.HasVoted(42), "vote memory survives across requests")
}

func TestManager_TamperedCookieGetsFreshSession(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	first, err := mgr.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := rec.Result().Cookies()[0]
	cookie.Value += "tampered"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	second, err := mgr.Session(rec2, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, rec2.Result().Cookies(), 1, "replacement cookie issued")
}

func TestManager_SweepsIdleSessions(t *testing.T) {
	mgr := newTestManager(t)
	now := time.Now()
	mgr.nowFunc = func() time.Time { return now }

	rec := httptest.NewRecorder()
	first, err := mgr.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	first.Votes.MarkVoted(42)
	cookie := rec.Result().Cookies()[0]

	// Still within the TTL; the entry survives a sweep.
	now = now.Add(30 * time.Minute)
	mgr.cleanup()
	mgr.mu.Lock()
	assert.Len(t, mgr.sessions, 1)
	mgr.mu.Unlock()

	now = now.Add(2 * time.Hour)
	mgr.cleanup()
	mgr.mu.Lock()
	assert.Empty(t, mgr.sessions)
	mgr.mu.Unlock()

	// A request after eviction rebuilds the session from storage.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rebuilt, err := mgr.Session(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, rebuilt.ID)
	assert.False(t, rebuilt.Votes.HasVoted(42), "vote memory does not survive eviction")
}

func TestManager_ActivityRefreshesIdleClock(t *testing.T) {
	mgr := newTestManager(t)
	now := time.Now()
	mgr.nowFunc = func() time.Time { return now }

	rec := httptest.NewRecorder()
	_, err := mgr.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := rec.Result().Cookies()[0]

	// A request 50 minutes in resets lastSeen, so the sweep at minute 100
	// finds the entry only 50 minutes idle.
	now = now.Add(50 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err = mgr.Session(httptest.NewRecorder(), req)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	mgr.cleanup()
	mgr.mu.Lock()
	assert.Len(t, mgr.sessions, 1, "active session is not swept")
	mgr.mu.Unlock()
}

func TestManager_ForeignSecretRejected(t *testing.T) {
	mgrA := newTestManager(t)
	newStore := func(ctx context.Context, storage Storage) (*Store, error) {
		return &Store{state: StateUnauthenticated, storage: storage, logger: newTestLogger()}, nil
	}
	mgrB := NewManager(context.Background(), "other-secret", time.Hour, false, nil, newStore, newTestLogger())

	rec := httptest.NewRecorder()
	first, err := mgrA.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	second, err := mgrB.Session(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

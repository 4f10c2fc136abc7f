package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the browser session cookie.
const CookieName = "jodi_session"

// Session bundles everything scoped to one browser session: the auth store,
// the session-scoped API client behind it, and the helpful-vote memory.
type Session struct {
	ID    string
	Store *Store
	Votes *Votes
}

// sessionEntry wraps a cached session with the time it last handled a
// request, so idle entries can be swept.
type sessionEntry struct {
	sess     *Session
	lastSeen time.Time
}

// sweepInterval is how often idle cached sessions are checked for eviction.
const sweepInterval = time.Hour

// Manager issues signed session cookies and owns the per-session state. The
// cookie carries only an opaque session ID inside an HMAC-signed JWT; all
// real state lives server-side in Storage. The in-process cache is rebuilt
// from Storage on the next request after eviction.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	secureOnly bool
	redis      *redis.Client // nil selects in-memory storage
	newStore   func(ctx context.Context, storage Storage) (*Store, error)
	logger     *slog.Logger
	nowFunc    func() time.Time // injectable clock for testing

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewManager creates a session manager. When redisClient is nil, session
// storage is in-memory (single instance only). The background sweep of idle
// cached sessions stops when ctx is canceled.
func NewManager(ctx context.Context, secret string, ttl time.Duration, secureOnly bool, redisClient *redis.Client, newStore func(ctx context.Context, storage Storage) (*Store, error), logger *slog.Logger) *Manager {
	m := &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		secureOnly: secureOnly,
		redis:      redisClient,
		newStore:   newStore,
		logger:     logger,
		nowFunc:    time.Now,
		sessions:   make(map[string]*sessionEntry),
	}
	go m.cleanupLoop(ctx)
	return m
}

// Session returns the browser session for the request, minting a new one
// (and setting the cookie) when the request carries none or an invalid one.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, ok := m.parseCookie(cookie.Value); ok {
			return m.lookup(r.Context(), id)
		}
	}

	id := uuid.New().String()
	token, err := m.signCookie(id)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secureOnly,
		SameSite: http.SameSiteLaxMode,
	})

	return m.lookup(r.Context(), id)
}

// lookup returns the cached session entry, building it (and its store, which
// may start in StateChecking if Redis still holds a token) on first sight.
func (m *Manager) lookup(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	if entry, ok := m.sessions[id]; ok {
		entry.lastSeen = m.nowFunc()
		m.mu.Unlock()
		return entry.sess, nil
	}
	m.mu.Unlock()

	var storage Storage
	if m.redis != nil {
		storage = NewRedisStorage(m.redis, id, m.ttl)
	} else {
		storage = NewMemory()
	}

	store, err := m.newStore(ctx, storage)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	sess := &Session{
		ID:    id,
		Store: store,
		Votes: NewVotes(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have raced us; keep the first entry so vote memory
	// is not lost.
	if existing, ok := m.sessions[id]; ok {
		existing.lastSeen = m.nowFunc()
		return existing.sess, nil
	}
	m.sessions[id] = &sessionEntry{sess: sess, lastSeen: m.nowFunc()}
	return sess, nil
}

func (m *Manager) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup drops cached sessions idle longer than the session TTL. Their
// cookie has expired by then, so nothing observable is lost.
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	for id, entry := range m.sessions {
		if now.Sub(entry.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) signCookie(id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

func (m *Manager) parseCookie(value string) (string, bool) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

package session

import (
	"context"
	"sync"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// Storage persists a browser session's authentication state under two keys:
// the opaque bearer token, and a JSON snapshot of the last-known user. The
// snapshot lets a returning session optimistically render the cached user
// while the token is revalidated. Both keys are always cleared together.
//
// Only the session store writes to Storage; the API client reads the token
// on every outgoing request through the TokenSource interface.
type Storage interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	User(ctx context.Context) (*domain.User, error)
	SetUser(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

// Memory is an in-process Storage, used in tests and single-instance
// development runs.
type Memory struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) User(ctx context.Context) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *Memory) SetUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user == nil {
		m.user = nil
		return nil
	}
	u := *user
	m.user = &u
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}

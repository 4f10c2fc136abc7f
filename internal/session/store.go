package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// State is the session store's authentication state.
type State int

const (
	// StateUnauthenticated means no identity is held.
	StateUnauthenticated State = iota

	// StateChecking is the transient startup state: a persisted token
	// exists but has not been revalidated against the server yet.
	StateChecking

	// StateAuthenticated means the identity probe or an explicit login
	// succeeded.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Store holds one browser session's authenticated identity. It owns all
// writes to the session Storage; the API client only reads the token from it.
//
// The mutex guards the in-memory state; it is never held across a network
// call, so the 401 hook (which fires mid-call) can safely flip the state.
type Store struct {
	mu     sync.Mutex
	state  State
	user   *domain.User
	client *api.Client

	storage Storage
	logger  *slog.Logger
}

// NewStore creates the store for one browser session. If the storage already
// holds a token the store starts in StateChecking and Hydrate must be called
// to revalidate it; otherwise it starts unauthenticated.
func NewStore(ctx context.Context, storage Storage, base *api.Client, logger *slog.Logger) (*Store, error) {
	s := &Store{
		state:   StateUnauthenticated,
		storage: storage,
		logger:  logger,
	}
	s.client = base.WithSession(storage, s.handleUnauthorized)

	token, err := storage.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		s.state = StateChecking
	}
	return s, nil
}

// Client returns the session-scoped API client: bearer token attached from
// this session's storage, 401s clearing this session.
func (s *Store) Client() *api.Client {
	return s.client
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated identity, or nil.
func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// CachedUser returns the persisted user snapshot for optimistic rendering
// while the store is still checking. Authoritative state comes from Hydrate.
func (s *Store) CachedUser(ctx context.Context) (*domain.User, error) {
	return s.storage.User(ctx)
}

// Hydrate runs the startup identity probe. In StateChecking it revalidates
// the persisted token with GET /auth/me: success moves to authenticated with
// the returned user, any failure discards the persisted token and moves to
// unauthenticated. In any other state it is a no-op.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.State() != StateChecking {
		return nil
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.InfoContext(ctx, "session probe failed, discarding token",
			slog.String("error", err.Error()),
		)
		if clearErr := s.storage.Clear(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "clear session storage", slog.String("error", clearErr.Error()))
		}
		s.setState(StateUnauthenticated, nil)
		return nil
	}

	// Refresh the snapshot so the next reload renders current data.
	if err := s.storage.SetUser(ctx, user); err != nil {
		return err
	}
	s.setState(StateAuthenticated, user)
	return nil
}

// Login authenticates with email and password, persists token and user
// snapshot, and moves to authenticated.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}
	s.setState(StateAuthenticated, &result.User)
	return &result.User, nil
}

// Register creates an account and signs the session in. Business-owner
// fields are passed through unchanged; validation is the form's job. A
// failure is reported as a failure.
func (s *Store) Register(ctx context.Context, input api.RegisterInput) (*domain.User, error) {
	result, err := s.client.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}
	s.setState(StateAuthenticated, &result.User)
	return &result.User, nil
}

// Logout attempts remote token invalidation, then clears local state. The
// local logout always happens, even when the remote call fails: a network
// failure must never leave the session signed in.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "remote logout failed, clearing local session anyway",
			slog.String("error", err.Error()),
		)
	}
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear session storage", slog.String("error", err.Error()))
	}
	s.setState(StateUnauthenticated, nil)
}

// UpdateUser merges a partial record into the current identity without a
// round trip. No-op when not authenticated.
func (s *Store) UpdateUser(ctx context.Context, patch domain.UserPatch) *domain.User {
	s.mu.Lock()
	if s.state != StateAuthenticated || s.user == nil {
		s.mu.Unlock()
		return nil
	}
	merged := s.user.Merge(patch)
	s.user = &merged
	s.mu.Unlock()

	if err := s.storage.SetUser(ctx, &merged); err != nil {
		s.logger.WarnContext(ctx, "persist user snapshot", slog.String("error", err.Error()))
	}
	return &merged
}

// handleUnauthorized is the 401 interceptor target: erase persisted state and
// drop to unauthenticated before the rejection reaches the caller.
func (s *Store) handleUnauthorized(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear session storage on 401", slog.String("error", err.Error()))
	}
	s.setState(StateUnauthenticated, nil)
}

func (s *Store) persist(ctx context.Context, result *api.AuthResult) error {
	if err := s.storage.SetToken(ctx, result.Token); err != nil {
		return err
	}
	return s.storage.SetUser(ctx, &result.User)
}

func (s *Store) setState(state State, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}

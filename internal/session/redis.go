package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// Redis key layout for one browser session.
const (
	tokenKeyFmt = "session:%s:token"
	userKeyFmt  = "session:%s:user"
)

// RedisStorage is a Redis-backed Storage keyed by browser session ID, so
// session state survives frontend restarts and is shared across instances.
type RedisStorage struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisStorage creates storage for one browser session.
func NewRedisStorage(client *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (s *RedisStorage) tokenKey() string {
	return fmt.Sprintf(tokenKeyFmt, s.sessionID)
}

func (s *RedisStorage) userKey() string {
	return fmt.Sprintf(userKeyFmt, s.sessionID)
}

func (s *RedisStorage) Token(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.tokenKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (s *RedisStorage) SetToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.tokenKey(), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *RedisStorage) User(ctx context.Context) (*domain.User, error) {
	data, err := s.client.Get(ctx, s.userKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user snapshot: %w", err)
	}
	return &user, nil
}

func (s *RedisStorage) SetUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		if err := s.client.Del(ctx, s.userKey()).Err(); err != nil {
			return fmt.Errorf("redis del user: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.userKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

// Clear removes both keys together.
func (s *RedisStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

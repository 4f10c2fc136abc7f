package api

import (
	"context"
	"fmt"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// GetUser fetches a user's public profile.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if _, err := c.get(ctx, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches the authenticated user's own profile and returns the
// updated record.
func (c *Client) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	body := map[string]domain.UserPatch{"user": patch}
	var user domain.User
	if err := c.patch(ctx, "/users/me", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

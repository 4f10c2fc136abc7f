package api

import (
	"context"
	"net/http"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// RegisterInput is the registration payload. The business-owner fields are
// passed through unchanged; the form layer validates them.
type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role"`
	MembershipStatus string `json:"membership_status,omitempty"`

	// Business-owner only.
	BusinessName    string `json:"business_name,omitempty"`
	LicenseNumber   string `json:"license_number,omitempty"`
	ServiceRecordID string `json:"service_record_id,omitempty"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	body := map[string]RegisterInput{"user": input}
	var result AuthResult
	if err := c.post(ctx, "/auth/register", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the identity behind the current bearer token. Used by the
// session store's startup probe to revalidate a persisted token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if _, err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the bearer token server-side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodDelete, "/auth/logout", nil, nil, nil)
	return err
}

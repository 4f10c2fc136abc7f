package http

import (
	"log/slog"
	"net/http"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/domain"
	"github.com/Asim1921/Jodi-frontend/internal/middleware"
	"github.com/Asim1921/Jodi-frontend/internal/session"
	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
	"github.com/Asim1921/Jodi-frontend/pkg/httputil"
	"github.com/Asim1921/Jodi-frontend/pkg/validator"
)

// AuthHandler exposes the session lifecycle to the browser.
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration form payload. Business owners must
// additionally supply a business name and license number; the service record
// identifier stays optional.
type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	FirstName        string `json:"first_name" validate:"required,notblank,max=50"`
	LastName         string `json:"last_name" validate:"required,notblank,max=50"`
	Phone            string `json:"phone" validate:"omitempty,e164"`
	Role             string `json:"role" validate:"required,oneof=customer business_owner"`
	MembershipStatus string `json:"membership_status" validate:"omitempty,oneof=veteran spouse supporter civilian"`

	BusinessName    string `json:"business_name" validate:"required_if=Role business_owner,omitempty,max=100"`
	LicenseNumber   string `json:"license_number" validate:"required_if=Role business_owner,omitempty,max=50"`
	ServiceRecordID string `json:"service_record_id" validate:"omitempty,max=50"`
}

// Login signs the browser session in.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := sess.Store.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Data:    map[string]any{"user": user},
		Message: "welcome back, " + user.Name(),
	})
}

// Register creates an account and signs the session in. A failed
// registration is reported as a failure to the user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := sess.Store.Register(r.Context(), api.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Role:             req.Role,
		MembershipStatus: req.MembershipStatus,
		BusinessName:     req.BusinessName,
		LicenseNumber:    req.LicenseNumber,
		ServiceRecordID:  req.ServiceRecordID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Success: true,
		Data:    map[string]any{"user": user},
		Message: "account created",
	})
}

// Logout clears the session. Local logout always succeeds, even when remote
// token invalidation fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	sess.Store.Logout(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "signed out",
	})
}

// Me reports the session identity. When the store is still checking a
// persisted token it runs the identity probe first; the cached snapshot is
// returned alongside so the page can render optimistically.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if sess.Store.State() == session.StateChecking {
		if err := sess.Store.Hydrate(r.Context()); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	user := sess.Store.User()
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("not signed in"), h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{
		"user":  user,
		"state": sess.Store.State().String(),
	})
}

// PublicProfile serves another user's public profile page.
func (h *AuthHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	user, err := sess.Store.Client().GetUser(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"user": user})
}

// UpdateProfile patches the profile remotely, then merges the result into
// the session identity.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if sess.Store.State() != session.StateAuthenticated {
		httputil.WriteError(w, r, apperrors.Unauthorized("not signed in"), h.logger)
		return
	}

	var patch domain.UserPatch
	if err := validator.DecodeAndValidate(r, &patch); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := sess.Store.Client().UpdateProfile(r.Context(), patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// Keep the session identity in sync without another round trip.
	sess.Store.UpdateUser(r.Context(), patch)

	httputil.WriteData(w, http.StatusOK, map[string]any{"user": user})
}

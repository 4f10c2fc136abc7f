package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
	"github.com/Asim1921/Jodi-frontend/pkg/logger"
	"github.com/Asim1921/Jodi-frontend/pkg/validator"
)

// Response is the JSON envelope the frontend returns to the browser. It
// mirrors the remote API's envelope so page scripts handle both identically.
type Response struct {
	Success  bool              `json:"success"`
	Data     any               `json:"data,omitempty"`
	Message  string            `json:"message,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful envelope around the given payload.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Success: true, Data: data})
}

// WriteError writes a standardized error envelope based on the error type.
// Unauthorized errors additionally carry a redirect to the login entry point
// so the page script can navigate there. Internal errors are logged with the
// request-scoped logger when one is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp := Response{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Details,
		}
		if appErr.Status == http.StatusUnauthorized {
			resp.Redirect = "/login"
		}
		if appErr.Status == http.StatusInternalServerError {
			logInternal(l, r, err)
		}
		WriteJSON(w, appErr.Status, resp)
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		message = "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "please sign in to continue"
	case errors.Is(err, apperrors.ErrForbidden):
		message = "you do not have permission to do that"
	case errors.Is(err, apperrors.ErrServiceUnavail):
		message = "the service is temporarily unavailable"
	}

	resp := Response{Success: false, Message: message}
	if status == http.StatusUnauthorized {
		resp.Redirect = "/login"
	}
	if status == http.StatusInternalServerError {
		logInternal(l, r, err)
	}

	WriteJSON(w, status, resp)
}

// WriteValidationError writes all failing field messages at once so the form
// can display them simultaneously.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: err.Error(),
	})
}

func logInternal(l *slog.Logger, r *http.Request, err error) {
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

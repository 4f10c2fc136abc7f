package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/middleware"
	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
	"github.com/Asim1921/Jodi-frontend/pkg/httputil"
	"github.com/Asim1921/Jodi-frontend/pkg/pagination"
	"github.com/Asim1921/Jodi-frontend/pkg/validator"
)

// BusinessHandler serves the directory pages: listings, categories, search,
// nearby lookups, admin moderation, and upload tickets. These are thin
// pass-throughs to the remote API using the session-scoped client.
type BusinessHandler struct {
	logger *slog.Logger
}

// NewBusinessHandler creates the business handler.
func NewBusinessHandler(logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{logger: logger}
}

func sessionClient(r *http.Request) *api.Client {
	return middleware.SessionFromContext(r.Context()).Store.Client()
}

// pathID parses a numeric chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name)
	}
	return id, nil
}

// List serves the business directory page.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	query := api.BusinessListQuery{
		Page:     p.Page,
		PerPage:  p.PerPage,
		Featured: r.URL.Query().Get("featured") == "true",
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			query.CategoryID = id
		}
	}

	page, err := sessionClient(r).ListBusinesses(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{
		"businesses": page.Businesses,
		"meta":       page.Meta,
	})
}

// Get serves one business detail page.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	business, err := sessionClient(r).GetBusiness(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"business": business})
}

// Categories serves the category index.
func (h *BusinessHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := sessionClient(r).Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"categories": categories})
}

// Search runs a directory search.
func (h *BusinessHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("search query is required"), h.logger)
		return
	}

	p := pagination.FromRequest(r)
	page, err := sessionClient(r).SearchBusinesses(r.Context(), q, p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{
		"businesses": page.Businesses,
		"meta":       page.Meta,
	})
}

// Suggestions serves search typeahead.
func (h *BusinessHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteData(w, http.StatusOK, map[string]any{"suggestions": []string{}})
		return
	}

	suggestions, err := sessionClient(r).SearchSuggestions(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// Nearby serves geographic lookups around a point.
func (h *BusinessHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("lat and lng are required"), h.logger)
		return
	}

	radius := 25.0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 500 {
			radius = v
		}
	}

	businesses, err := sessionClient(r).NearbyBusinesses(r.Context(), lat, lng, radius)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"businesses": businesses})
}

// UploadRequest is the payload for requesting a presigned image upload.
type UploadRequest struct {
	Filename    string `json:"filename" validate:"required,notblank,max=255"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
}

// RequestUpload asks the remote API for a presigned upload slot.
func (h *BusinessHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ticket, err := sessionClient(r).RequestUpload(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"upload": ticket})
}

// PendingBusinesses serves the admin moderation queue. Authorization is the
// remote API's call; a non-admin gets its 403 passed through.
func (h *BusinessHandler) PendingBusinesses(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	page, err := sessionClient(r).PendingBusinesses(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{
		"businesses": page.Businesses,
		"meta":       page.Meta,
	})
}

// Approve approves a pending listing.
func (h *BusinessHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	business, err := sessionClient(r).ApproveBusiness(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"business": business})
}

// rejectRequest is the admin rejection payload.
type rejectRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// Reject rejects a pending listing.
func (h *BusinessHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req rejectRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	business, err := sessionClient(r).RejectBusiness(r.Context(), id, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"business": business})
}

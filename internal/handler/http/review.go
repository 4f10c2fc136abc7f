package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Asim1921/Jodi-frontend/internal/middleware"
	"github.com/Asim1921/Jodi-frontend/internal/review"
	"github.com/Asim1921/Jodi-frontend/internal/session"
	"github.com/Asim1921/Jodi-frontend/internal/view"
	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
	"github.com/Asim1921/Jodi-frontend/pkg/httputil"
	"github.com/Asim1921/Jodi-frontend/pkg/validator"
)

// controllerEntry wraps a cached controller with the time it last handled a
// request, so idle entries can be swept.
type controllerEntry struct {
	controller *review.Controller
	lastSeen   time.Time
}

// controllerSweepInterval is how often idle controllers are checked for
// eviction.
const controllerSweepInterval = time.Hour

// ReviewHandler serves the review section of a business page. Each browser
// session gets its own controller per business so pagination position, active
// filters, and in-flight generation tracking survive across requests.
// Controllers idle longer than the session TTL are swept; a later request
// simply starts a fresh one at page 1.
type ReviewHandler struct {
	perPage int
	ttl     time.Duration
	logger  *slog.Logger
	nowFunc func() time.Time // injectable clock for testing

	mu          sync.Mutex
	controllers map[string]*controllerEntry
}

// NewReviewHandler creates the review handler. The background sweep of idle
// controllers stops when ctx is canceled.
func NewReviewHandler(ctx context.Context, perPage int, ttl time.Duration, logger *slog.Logger) *ReviewHandler {
	h := &ReviewHandler{
		perPage:     perPage,
		ttl:         ttl,
		logger:      logger,
		nowFunc:     time.Now,
		controllers: make(map[string]*controllerEntry),
	}
	go h.cleanupLoop(ctx)
	return h
}

// controller returns the session's controller for a business, creating it on
// first use. The controller is bound to the session-scoped client and vote
// memory, and re-reads the session identity on every capability check.
func (h *ReviewHandler) controller(sess *session.Session, businessID int64) *review.Controller {
	key := fmt.Sprintf("%s:%d", sess.ID, businessID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if entry, ok := h.controllers[key]; ok {
		entry.lastSeen = h.nowFunc()
		return entry.controller
	}

	c := review.NewController(businessID, sess.Store.Client(), sess.Votes, sess.Store.User, h.perPage, h.logger)
	h.controllers[key] = &controllerEntry{controller: c, lastSeen: h.nowFunc()}
	return c
}

func (h *ReviewHandler) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(controllerSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.cleanup()
		}
	}
}

// cleanup drops controllers whose session has been idle longer than the
// session TTL.
func (h *ReviewHandler) cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.nowFunc()
	for key, entry := range h.controllers {
		if now.Sub(entry.lastSeen) > h.ttl {
			delete(h.controllers, key)
		}
	}
}

// listResponse assembles the review section payload from the controller's
// current state.
func (h *ReviewHandler) listResponse(sess *session.Session, c *review.Controller) map[string]any {
	snap := c.Snapshot()
	viewer := sess.Store.User()

	resp := map[string]any{
		"reviews":    view.Cards(snap.Reviews, viewer, sess.Votes),
		"statistics": snap.Statistics,
		"page":       snap.Page,
		"has_more":   snap.HasMore,
		"filters": map[string]any{
			"rating":        snap.Filters.Rating,
			"verified_only": snap.Filters.VerifiedOnly,
			"sort_by":       snap.Filters.SortBy,
		},
	}
	if own := c.UserReview(); own != nil {
		resp["user_review"] = view.NewCard(*own, viewer, sess.Votes)
	}
	return resp
}

// List serves one page of reviews. Filter or sort parameters that differ from
// the session's active tuple reset the list to page 1; otherwise the
// requested page is fetched and pages past the first extend the collection.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	c := h.controller(sess, businessID)

	filters := review.Filters{
		VerifiedOnly: r.URL.Query().Get("verified") == "true",
		SortBy:       review.NormalizeSort(r.URL.Query().Get("sort_by")),
	}
	if raw := r.URL.Query().Get("rating"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 5 {
			filters.Rating = &v
		}
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	if c.Snapshot().Filters.Equal(filters) {
		err = c.Fetch(r.Context(), page)
	} else {
		err = c.ApplyFilters(r.Context(), filters)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, h.listResponse(sess, c))
}

// Create submits a new review. All client-side rule failures are reported in
// one response; server-side failures are routed back onto form fields by
// keyword where possible.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())

	var form review.FormInput
	if err := validator.Decode(r, &form); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := form.Validate(); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := sess.Store.Client().CreateReview(r.Context(), businessID, form.ToInput())
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	c := h.controller(sess, businessID)
	c.AcceptSubmitted(r.Context(), *rec)

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Success: true,
		Message: "review submitted",
		Data:    h.listResponse(sess, c),
	})
}

// Update edits the session user's review in place.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())

	var form review.FormInput
	if err := validator.Decode(r, &form); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := form.Validate(); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := sess.Store.Client().UpdateReview(r.Context(), businessID, reviewID, form.ToInput())
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	c := h.controller(sess, businessID)
	c.AcceptSubmitted(r.Context(), *rec)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "review updated",
		Data:    h.listResponse(sess, c),
	})
}

// Delete removes the session user's review. The request must carry
// confirm=true, which the page sets only after the user accepts the
// confirmation dialog.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	c := h.controller(sess, businessID)

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := c.Delete(r.Context(), reviewID, confirmed); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "review deleted",
		Data:    h.listResponse(sess, c),
	})
}

// MarkHelpful records a helpful vote for a review. Own-review and repeat
// votes are rejected before any network call.
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	c := h.controller(sess, businessID)

	count, err := c.MarkHelpful(r.Context(), reviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{
		"review_id":     reviewID,
		"helpful_count": count,
	})
}

// reportRequest is the review report payload.
type reportRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// Report flags a review for moderation.
func (h *ReviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	businessID, err := pathID(r, "businessID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := middleware.SessionFromContext(r.Context())
	c := h.controller(sess, businessID)

	var req reportRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := c.Report(r.Context(), reviewID, req.Reason); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"reported": true})
}

// writeSubmitError turns an upstream review submission failure into a form
// response. Upstream validation messages are routed onto field keys by
// keyword; anything unroutable goes into the errors list.
func (h *ReviewHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && len(appErr.Details) > 0 && appErr.Status < http.StatusInternalServerError {
		fields, leftovers := review.RouteServerErrors(appErr.Details)
		httputil.WriteJSON(w, appErr.Status, httputil.Response{
			Success: false,
			Message: appErr.Message,
			Errors:  leftovers,
			Fields:  fields,
		})
		return
	}

	httputil.WriteError(w, r, err, h.logger)
}

package review

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/domain"
	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
)

// VoteMemory is the session-local record of helpful votes. Non-authoritative;
// the server prevents duplicates across sessions.
type VoteMemory interface {
	HasVoted(reviewID int64) bool
	MarkVoted(reviewID int64)
}

// Identity supplies the current session identity, re-read on every use so
// capability checks never act on a stale user.
type Identity func() *domain.User

// Controller maintains the paginated, filtered review collection and its
// aggregate statistics for one business. All mutation of the local state
// happens under the mutex; the mutex is never held across a network call,
// and stale responses are detected by generation (see listState).
type Controller struct {
	businessID int64
	client     *api.Client
	votes      VoteMemory
	identity   Identity
	logger     *slog.Logger
	perPage    int

	mu    sync.Mutex
	state listState
}

// NewController creates a controller for one business.
func NewController(businessID int64, client *api.Client, votes VoteMemory, identity Identity, perPage int, logger *slog.Logger) *Controller {
	if perPage <= 0 {
		perPage = 10
	}
	return &Controller{
		businessID: businessID,
		client:     client,
		votes:      votes,
		identity:   identity,
		logger:     logger,
		perPage:    perPage,
		state: listState{
			filters: Filters{SortBy: SortNewest},
			page:    1,
		},
	}
}

// Snapshot returns a copy of the current list state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	reviews := make([]domain.Review, len(c.state.reviews))
	copy(reviews, c.state.reviews)

	var stats *domain.ReviewStatistics
	if c.state.stats != nil {
		s := *c.state.stats
		stats = &s
	}

	return Snapshot{
		Reviews:    reviews,
		Statistics: stats,
		Filters:    c.state.filters,
		Page:       c.state.page,
		HasMore:    c.state.hasMore,
	}
}

// UserReview returns the element of the current collection authored by the
// session identity, if any. Used to suppress the "write a review" prompt in
// favor of an edit affordance.
func (c *Controller) UserReview() *domain.Review {
	user := c.identity()
	if user == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.state.reviews {
		if c.state.reviews[i].Author.ID == user.ID {
			r := c.state.reviews[i]
			return &r
		}
	}
	return nil
}

// Fetch requests the given page with the active filter tuple. Page 1
// replaces the whole collection; later pages append in server order.
// Statistics are always replaced with the freshest server value, and hasMore
// comes from the response meta (false when meta is absent). On failure the
// existing state is left untouched.
func (c *Controller) Fetch(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	filters := c.state.filters
	gen := c.state.generation
	c.mu.Unlock()

	resp, err := c.client.ListReviews(ctx, c.businessID, api.ReviewListQuery{
		Page:         page,
		PerPage:      c.perPage,
		Rating:       filters.Rating,
		VerifiedOnly: filters.VerifiedOnly,
		SortBy:       filters.SortBy,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The filter tuple changed while this fetch was in flight; its result
	// describes a list the user is no longer looking at.
	if c.state.generation != gen {
		c.logger.DebugContext(ctx, "discarding stale review fetch",
			slog.Int64("business_id", c.businessID),
			slog.Int("page", page),
		)
		return nil
	}

	if page == 1 {
		c.state.reviews = resp.Reviews
	} else {
		c.state.reviews = append(c.state.reviews, resp.Reviews...)
	}
	if resp.Statistics != nil {
		c.state.stats = resp.Statistics
	}
	c.state.page = page
	c.state.hasMore = resp.Meta.HasMore()
	return nil
}

// ApplyFilters installs a new filter tuple. Any change resets the page to 1
// and refetches with replace semantics; an identical tuple is a no-op.
func (c *Controller) ApplyFilters(ctx context.Context, f Filters) error {
	f.SortBy = NormalizeSort(f.SortBy)

	c.mu.Lock()
	if c.state.filters.Equal(f) {
		c.mu.Unlock()
		return nil
	}
	c.state.filters = f
	c.state.page = 1
	c.state.generation++
	c.mu.Unlock()

	return c.Fetch(ctx, 1)
}

// AcceptSubmitted reconciles a server-returned record from the review form:
// an edit replaces the matching element in place, a create is prepended.
// Either way the statistics are refetched from the server afterward.
func (c *Controller) AcceptSubmitted(ctx context.Context, rec domain.Review) {
	c.mu.Lock()
	replaced := false
	for i := range c.state.reviews {
		if c.state.reviews[i].ID == rec.ID {
			c.state.reviews[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		c.state.reviews = append([]domain.Review{rec}, c.state.reviews...)
	}
	c.mu.Unlock()

	c.refreshStatistics(ctx)
}

// Delete removes a review. The destructive call requires an explicit
// confirmation signal; without it no request is made. On success the record
// is dropped from local state and statistics are refetched; on failure the
// state is untouched.
func (c *Controller) Delete(ctx context.Context, reviewID int64, confirmed bool) error {
	if !confirmed {
		return apperrors.InvalidInput("deleting a review requires confirmation")
	}

	if err := c.client.DeleteReview(ctx, c.businessID, reviewID); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.state.reviews[:0]
	for _, r := range c.state.reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	c.state.reviews = kept
	c.mu.Unlock()

	c.refreshStatistics(ctx)
	return nil
}

// MarkHelpful records a helpful vote. Votes on the session user's own review
// and repeat votes within this session are rejected locally, without a
// network call. On success only the helpful counter of the matching record
// is updated, from the server-returned value.
func (c *Controller) MarkHelpful(ctx context.Context, reviewID int64) (int, error) {
	c.mu.Lock()
	var target *domain.Review
	for i := range c.state.reviews {
		if c.state.reviews[i].ID == reviewID {
			target = &c.state.reviews[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return 0, apperrors.NotFound("review", "unknown")
	}
	authorID := target.Author.ID
	c.mu.Unlock()

	if user := c.identity(); user != nil && user.ID == authorID {
		return 0, apperrors.Forbidden("you cannot mark your own review as helpful")
	}
	if c.votes.HasVoted(reviewID) {
		return 0, apperrors.Conflict("you already marked this review as helpful")
	}

	count, err := c.client.MarkHelpful(ctx, c.businessID, reviewID)
	if err != nil {
		return 0, err
	}

	c.votes.MarkVoted(reviewID)

	c.mu.Lock()
	for i := range c.state.reviews {
		if c.state.reviews[i].ID == reviewID {
			c.state.reviews[i].HelpfulCount = count
			break
		}
	}
	c.mu.Unlock()

	return count, nil
}

// Report flags a review for moderation. Local state is unaffected.
func (c *Controller) Report(ctx context.Context, reviewID int64, reason string) error {
	return c.client.ReportReview(ctx, c.businessID, reviewID, reason)
}

// refreshStatistics replaces the aggregate block with the freshest server
// value. Aggregates are never computed locally; a refetch failure keeps the
// previous block and is only logged.
func (c *Controller) refreshStatistics(ctx context.Context) {
	stats, err := c.client.ReviewStatistics(ctx, c.businessID)
	if err != nil {
		c.logger.WarnContext(ctx, "refresh review statistics",
			slog.Int64("business_id", c.businessID),
			slog.String("error", err.Error()),
		)
		return
	}

	c.mu.Lock()
	c.state.stats = stats
	c.mu.Unlock()
}

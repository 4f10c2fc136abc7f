package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// ReviewListQuery holds the filter, sort, and pagination parameters for a
// review list request.
type ReviewListQuery struct {
	Page    int
	PerPage int

	// Rating filters to reviews with exactly this star rating; nil means no
	// rating filter.
	Rating *int

	// VerifiedOnly restricts to verified-purchase reviews.
	VerifiedOnly bool

	// SortBy is one of newest, oldest, highest, lowest, helpful.
	SortBy string
}

func (q ReviewListQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Rating != nil {
		v.Set("rating", strconv.Itoa(*q.Rating))
	}
	if q.VerifiedOnly {
		v.Set("verified", "true")
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	return v
}

// ReviewPage is one page of reviews plus the aggregate statistics the server
// embeds in the list response.
type ReviewPage struct {
	Reviews    []domain.Review          `json:"reviews"`
	Statistics *domain.ReviewStatistics `json:"statistics,omitempty"`
	Meta       *Meta                    `json:"-"`
}

// ReviewInput is the create/update payload for a review.
type ReviewInput struct {
	Rating             int     `json:"rating"`
	Title              string  `json:"review_title"`
	Text               string  `json:"review_text"`
	ServiceDate        string  `json:"service_date,omitempty"`
	ResponseTimeRating *int    `json:"response_time_rating,omitempty"`
	QualityRating      *int    `json:"quality_rating,omitempty"`
	ValueRating        *int    `json:"value_rating,omitempty"`
	WouldRecommend     *bool   `json:"would_recommend,omitempty"`
	CostRange          string  `json:"cost_range,omitempty"`
}

// ListReviews fetches one page of reviews for a business.
func (c *Client) ListReviews(ctx context.Context, businessID int64, query ReviewListQuery) (*ReviewPage, error) {
	var page ReviewPage
	meta, err := c.get(ctx, fmt.Sprintf("/businesses/%d/reviews", businessID), query.values(), &page)
	if err != nil {
		return nil, err
	}
	page.Meta = meta
	return &page, nil
}

// GetReview fetches a single review.
func (c *Client) GetReview(ctx context.Context, businessID, reviewID int64) (*domain.Review, error) {
	var review domain.Review
	if _, err := c.get(ctx, fmt.Sprintf("/businesses/%d/reviews/%d", businessID, reviewID), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewStatistics fetches the aggregate statistics for a business. The
// controller calls this after every mutation; aggregates are never computed
// client-side.
func (c *Client) ReviewStatistics(ctx context.Context, businessID int64) (*domain.ReviewStatistics, error) {
	var stats domain.ReviewStatistics
	if _, err := c.get(ctx, fmt.Sprintf("/businesses/%d/reviews/statistics", businessID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateReview submits a new review for a business.
func (c *Client) CreateReview(ctx context.Context, businessID int64, input ReviewInput) (*domain.Review, error) {
	body := map[string]ReviewInput{"review": input}
	var review domain.Review
	if err := c.post(ctx, fmt.Sprintf("/businesses/%d/reviews", businessID), body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits an existing review.
func (c *Client) UpdateReview(ctx context.Context, businessID, reviewID int64, input ReviewInput) (*domain.Review, error) {
	body := map[string]ReviewInput{"review": input}
	var review domain.Review
	if err := c.patch(ctx, fmt.Sprintf("/businesses/%d/reviews/%d", businessID, reviewID), body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, businessID, reviewID int64) error {
	return c.delete(ctx, fmt.Sprintf("/businesses/%d/reviews/%d", businessID, reviewID))
}

// helpfulResult is the payload of a helpful-vote response.
type helpfulResult struct {
	HelpfulCount int `json:"helpful_count"`
}

// MarkHelpful records a helpful vote and returns the server's updated count.
func (c *Client) MarkHelpful(ctx context.Context, businessID, reviewID int64) (int, error) {
	var result helpfulResult
	if err := c.post(ctx, fmt.Sprintf("/businesses/%d/reviews/%d/helpful", businessID, reviewID), nil, &result); err != nil {
		return 0, err
	}
	return result.HelpfulCount, nil
}

// ReportReview flags a review for moderation.
func (c *Client) ReportReview(ctx context.Context, businessID, reviewID int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.post(ctx, fmt.Sprintf("/businesses/%d/reviews/%d/report", businessID, reviewID), body, nil)
}

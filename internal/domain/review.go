package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Cost range buckets a reviewer may pick. The remote API rejects anything
// outside this set.
const (
	CostUnder100   = "under_100"
	Cost100To500   = "100_to_500"
	Cost500To1000  = "500_to_1000"
	Cost1000To5000 = "1000_to_5000"
	CostOver5000   = "over_5000"
)

// ValidCostRanges returns all valid cost range buckets.
func ValidCostRanges() []string {
	return []string{CostUnder100, Cost100To500, Cost500To1000, Cost1000To5000, CostOver5000}
}

// IsValidCostRange reports whether the given bucket label is valid.
func IsValidCostRange(s string) bool {
	for _, v := range ValidCostRanges() {
		if s == v {
			return true
		}
	}
	return false
}

// ReviewAuthor is the embedded author summary on a review.
type ReviewAuthor struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	MembershipStatus string `json:"membership_status"`
	Verified         bool   `json:"verified"`
}

// Review is a single customer evaluation of a business, as returned by the
// remote API. The client holds an ephemeral cached copy for rendering; the
// remote service owns the record.
//
// CanEdit and CanDelete are computed by the server for the requesting
// identity and are only authoritative as returned by the latest response.
type Review struct {
	ID                 int64        `json:"id"`
	Rating             int          `json:"rating"`
	Title              string       `json:"review_title"`
	Text               string       `json:"review_text"`
	ServiceDate        *time.Time   `json:"service_date,omitempty"`
	ResponseTimeRating *int         `json:"response_time_rating,omitempty"`
	QualityRating      *int         `json:"quality_rating,omitempty"`
	ValueRating        *int         `json:"value_rating,omitempty"`
	WouldRecommend     *bool        `json:"would_recommend,omitempty"`
	CostRange          string       `json:"cost_range,omitempty"`
	VerifiedPurchase   bool         `json:"verified_purchase"`
	VerifiedReviewer   bool         `json:"verified_reviewer"`
	HelpfulCount       int          `json:"helpful_count"`
	BusinessResponse   string       `json:"business_response,omitempty"`
	BusinessResponseAt *time.Time   `json:"business_response_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	Author             ReviewAuthor `json:"user"`
	CanEdit            bool         `json:"can_edit"`
	CanDelete          bool         `json:"can_delete"`
}

// ReviewStatistics is the server-computed aggregate for a business. The
// client treats it as read-only and refetches after any mutation instead of
// recomputing locally.
type ReviewStatistics struct {
	TotalReviews       int            `json:"total_reviews"`
	AverageRating      Rating         `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	VerifiedReviews    int            `json:"verified_reviews"`
	RecommendPercent   float64        `json:"recommend_percentage"`
}

// Rating is a float that tolerates the remote API sending the average as a
// JSON string or null, defaulting to 0.0 when absent or non-numeric.
type Rating float64

// UnmarshalJSON accepts a number, a quoted numeric string, or null.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*r = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*r = 0
			return nil
		}
		*r = Rating(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*r = 0
		return nil
	}
	*r = Rating(f)
	return nil
}

// Value returns the rating as a plain float64.
func (r Rating) Value() float64 {
	return float64(r)
}

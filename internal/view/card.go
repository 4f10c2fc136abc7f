package view

import (
	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// voteMemory is the slice of the session vote state the card needs.
type voteMemory interface {
	HasVoted(reviewID int64) bool
}

// Card is the view model for one review. It is stateless with respect to
// the review data; the only session-derived bits are the vote flags. Edit
// and delete affordances follow the server-supplied capability flags on the
// record, which are re-derived from every response and never cached across
// identity changes.
type Card struct {
	Review domain.Review `json:"review"`
	Stars  [5]Glyph      `json:"stars"`

	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`

	// HelpfulDisabled disables (not hides) the helpful control when the
	// viewer authored the review.
	HelpfulDisabled bool `json:"helpful_disabled"`

	// AlreadyVoted marks a helpful vote cast earlier in this session.
	AlreadyVoted bool `json:"already_voted"`

	CostLabel string `json:"cost_label,omitempty"`
}

// NewCard builds the card view model for one review as seen by viewer
// (nil when unauthenticated).
func NewCard(r domain.Review, viewer *domain.User, votes voteMemory) Card {
	isAuthor := viewer != nil && viewer.ID == r.Author.ID

	return Card{
		Review:          r,
		Stars:           Stars(float64(r.Rating)),
		CanEdit:         r.CanEdit,
		CanDelete:       r.CanDelete,
		HelpfulDisabled: isAuthor,
		AlreadyVoted:    votes != nil && votes.HasVoted(r.ID),
		CostLabel:       CostLabel(r.CostRange),
	}
}

// Cards builds view models for a whole collection, preserving order.
func Cards(reviews []domain.Review, viewer *domain.User, votes voteMemory) []Card {
	out := make([]Card, len(reviews))
	for i, r := range reviews {
		out[i] = NewCard(r, viewer, votes)
	}
	return out
}

// CostLabel maps a cost range bucket to its display label. Unknown buckets
// render as empty rather than leaking raw enum values to the page.
func CostLabel(bucket string) string {
	switch bucket {
	case domain.CostUnder100:
		return "Under $100"
	case domain.Cost100To500:
		return "$100 - $500"
	case domain.Cost500To1000:
		return "$500 - $1,000"
	case domain.Cost1000To5000:
		return "$1,000 - $5,000"
	case domain.CostOver5000:
		return "Over $5,000"
	default:
		return ""
	}
}

package review

import (
	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// Sort keys accepted by the remote API's sort_by parameter.
const (
	SortNewest      = "newest"
	SortOldest      = "oldest"
	SortHighest     = "highest"
	SortLowest      = "lowest"
	SortMostHelpful = "helpful"
)

// NormalizeSort maps client-facing sort names onto API sort keys, defaulting
// to newest. The page UI historically sent "most-helpful" for the helpful
// sort.
func NormalizeSort(s string) string {
	switch s {
	case SortNewest, SortOldest, SortHighest, SortLowest, SortMostHelpful:
		return s
	case "most-helpful", "most_helpful":
		return SortMostHelpful
	default:
		return SortNewest
	}
}

// Filters is the client-local filter and sort state for one review list.
type Filters struct {
	// Rating filters to reviews with exactly this star value; nil disables.
	Rating *int

	// VerifiedOnly restricts to verified-purchase reviews.
	VerifiedOnly bool

	// SortBy is a normalized sort key.
	SortBy string
}

// Equal reports whether two filter states select the same result set.
func (f Filters) Equal(other Filters) bool {
	if (f.Rating == nil) != (other.Rating == nil) {
		return false
	}
	if f.Rating != nil && *f.Rating != *other.Rating {
		return false
	}
	return f.VerifiedOnly == other.VerifiedOnly && f.SortBy == other.SortBy
}

// listState is the controller's explicit state: current collection,
// statistics, filter tuple, pagination bookkeeping, and the fetch generation.
//
// The generation counter makes the out-of-order response race harmless:
// every fetch is stamped with the generation at dispatch, any filter or sort
// change increments it, and responses carrying a stale generation are
// discarded instead of clobbering newer state.
type listState struct {
	reviews    []domain.Review
	stats      *domain.ReviewStatistics
	filters    Filters
	page       int
	hasMore    bool
	generation uint64
}

// Snapshot is an immutable copy of the list state handed to callers.
type Snapshot struct {
	Reviews    []domain.Review
	Statistics *domain.ReviewStatistics
	Filters    Filters
	Page       int
	HasMore    bool
}

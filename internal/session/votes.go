package session

import "sync"

// Votes is the session-local helpful-vote memory: the set of review IDs this
// browser session has already voted on. It is non-authoritative and does not
// survive the session; the server remains the source of truth for duplicate
// prevention across sessions.
type Votes struct {
	mu    sync.Mutex
	voted map[int64]struct{}
}

// NewVotes creates an empty vote memory.
func NewVotes() *Votes {
	return &Votes{voted: make(map[int64]struct{})}
}

// HasVoted reports whether this session already voted on the review.
func (v *Votes) HasVoted(reviewID int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.voted[reviewID]
	return ok
}

// MarkVoted records a successful vote for the rest of the session.
func (v *Votes) MarkVoted(reviewID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.voted[reviewID] = struct{}{}
}

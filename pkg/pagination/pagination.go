package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns the defaults the review list uses.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: 10,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Invalid or out-of-range values fall back to defaults; per_page is capped
// at 50 to keep remote API responses bounded.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 50 {
			p.PerPage = v
		}
	}

	return p
}

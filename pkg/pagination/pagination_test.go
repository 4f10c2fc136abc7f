package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PerPage: 10}},
		{"explicit", "page=3&per_page=25", Params{Page: 3, PerPage: 25}},
		{"zero page falls back", "page=0", Params{Page: 1, PerPage: 10}},
		{"negative page falls back", "page=-2", Params{Page: 1, PerPage: 10}},
		{"garbage falls back", "page=ten&per_page=many", Params{Page: 1, PerPage: 10}},
		{"per_page over cap falls back", "per_page=500", Params{Page: 1, PerPage: 10}},
		{"per_page at cap accepted", "per_page=50", Params{Page: 1, PerPage: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// SearchBusinesses runs a full-text search over listings.
func (c *Client) SearchBusinesses(ctx context.Context, q string, page, perPage int) (*BusinessPage, error) {
	v := url.Values{}
	v.Set("q", q)
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	}

	var result BusinessPage
	meta, err := c.get(ctx, "/search/businesses", v, &result)
	if err != nil {
		return nil, err
	}
	result.Meta = meta
	return &result, nil
}

// SearchSuggestions returns typeahead suggestions for a partial query.
func (c *Client) SearchSuggestions(ctx context.Context, q string) ([]string, error) {
	v := url.Values{}
	v.Set("q", q)

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if _, err := c.get(ctx, "/search/suggestions", v, &payload); err != nil {
		return nil, err
	}
	return payload.Suggestions, nil
}

// NearbyBusinesses returns listings within radiusKm of the given point.
func (c *Client) NearbyBusinesses(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Business, error) {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	v.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))

	var payload struct {
		Businesses []domain.Business `json:"businesses"`
	}
	if _, err := c.get(ctx, "/geo/nearby", v, &payload); err != nil {
		return nil, err
	}
	return payload.Businesses, nil
}

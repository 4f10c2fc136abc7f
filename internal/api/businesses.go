package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// BusinessListQuery holds the filter and pagination parameters for a
// business list request.
type BusinessListQuery struct {
	Page       int
	PerPage    int
	CategoryID int64
	Featured   bool
}

func (q BusinessListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	return v
}

// BusinessPage is one page of business listings.
type BusinessPage struct {
	Businesses []domain.Business `json:"businesses"`
	Meta       *Meta             `json:"-"`
}

// ListBusinesses fetches one page of listings.
func (c *Client) ListBusinesses(ctx context.Context, query BusinessListQuery) (*BusinessPage, error) {
	var page BusinessPage
	meta, err := c.get(ctx, "/businesses", query.values(), &page)
	if err != nil {
		return nil, err
	}
	page.Meta = meta
	return &page, nil
}

// GetBusiness fetches a single listing.
func (c *Client) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	var business domain.Business
	if _, err := c.get(ctx, fmt.Sprintf("/businesses/%d", id), nil, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

// Categories fetches all business categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var payload struct {
		Categories []domain.Category `json:"categories"`
	}
	if _, err := c.get(ctx, "/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

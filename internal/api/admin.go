package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Asim1921/Jodi-frontend/internal/domain"
)

// PendingBusinesses fetches the moderation queue of unapproved listings.
// Admin-only; the server enforces the role.
func (c *Client) PendingBusinesses(ctx context.Context, page, perPage int) (*BusinessPage, error) {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	}

	var result BusinessPage
	meta, err := c.get(ctx, "/admin/businesses/pending", v, &result)
	if err != nil {
		return nil, err
	}
	result.Meta = meta
	return &result, nil
}

// ApproveBusiness approves a pending listing.
func (c *Client) ApproveBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	var business domain.Business
	if err := c.post(ctx, fmt.Sprintf("/admin/businesses/%d/approve", id), nil, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

// RejectBusiness rejects a pending listing with a reason.
func (c *Client) RejectBusiness(ctx context.Context, id int64, reason string) (*domain.Business, error) {
	body := map[string]string{"reason": reason}
	var business domain.Business
	if err := c.post(ctx, fmt.Sprintf("/admin/businesses/%d/reject", id), body, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

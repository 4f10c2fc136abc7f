package api

import "context"

// UploadTicket is a presigned upload slot issued by the remote API. The
// browser PUTs the file straight to URL and then references PublicURL.
type UploadTicket struct {
	URL       string            `json:"url"`
	PublicURL string            `json:"public_url"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresIn int               `json:"expires_in"`
}

// RequestUpload asks the remote API for a presigned upload slot.
func (c *Client) RequestUpload(ctx context.Context, filename, contentType string) (*UploadTicket, error) {
	body := map[string]string{
		"filename":     filename,
		"content_type": contentType,
	}
	var ticket UploadTicket
	if err := c.post(ctx, "/uploads", body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

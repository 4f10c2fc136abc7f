package domain

import "time"

// Business listing statuses used by the admin moderation queue.
const (
	BusinessPending  = "pending"
	BusinessApproved = "approved"
	BusinessRejected = "rejected"
)

// Business is a directory listing as returned by the remote API.
type Business struct {
	ID            int64    `json:"id"`
	Name          string   `json:"business_name"`
	Description   string   `json:"description"`
	CategoryIDs   []int64  `json:"category_ids"`
	OwnerID       int64    `json:"owner_id"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Zip           string   `json:"zip"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Website       string   `json:"website,omitempty"`
	LicenseNumber string   `json:"license_number,omitempty"`
	VeteranOwned  bool     `json:"veteran_owned"`
	Featured      bool     `json:"featured"`
	Status        string   `json:"status"`
	AverageRating Rating   `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
	ImageURLs     []string `json:"image_urls,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a business category.
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Icon          string `json:"icon,omitempty"`
	BusinessCount int    `json:"business_count"`
}

package domain

import "time"

// User roles recognized by the remote API.
const (
	RoleCustomer      = "customer"
	RoleBusinessOwner = "business_owner"
	RoleAdmin         = "admin"
)

// Membership status labels. Unrelated to the authorization role; these are
// identity badges (veteran, spouse, supporter) shown next to a user's name.
const (
	MembershipVeteran   = "veteran"
	MembershipSpouse    = "spouse"
	MembershipSupporter = "supporter"
	MembershipCivilian  = "civilian"
)

// User is the authenticated identity record returned by the remote API.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone,omitempty"`
	Role             string    `json:"role"`
	MembershipStatus string    `json:"membership_status"`
	Verified         bool      `json:"verified"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Name returns the user's display name.
func (u *User) Name() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsBusinessOwner reports whether the user registered as a business owner.
func (u *User) IsBusinessOwner() bool {
	return u.Role == RoleBusinessOwner
}

// Merge applies the non-zero fields of the partial record onto u and returns
// the merged copy. Used by the session store's updateUser operation, which
// patches the cached identity without a server round trip.
func (u User) Merge(partial UserPatch) User {
	if partial.Email != nil {
		u.Email = *partial.Email
	}
	if partial.FirstName != nil {
		u.FirstName = *partial.FirstName
	}
	if partial.LastName != nil {
		u.LastName = *partial.LastName
	}
	if partial.Phone != nil {
		u.Phone = *partial.Phone
	}
	if partial.MembershipStatus != nil {
		u.MembershipStatus = *partial.MembershipStatus
	}
	if partial.AvatarURL != nil {
		u.AvatarURL = *partial.AvatarURL
	}
	return u
}

// UserPatch is a partial user record for local merges.
type UserPatch struct {
	Email            *string `json:"email,omitempty"`
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	MembershipStatus *string `json:"membership_status,omitempty"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
}

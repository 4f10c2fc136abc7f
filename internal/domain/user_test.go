package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Name(t *testing.T) {
	assert.Equal(t, "Sam Reyes", (&User{FirstName: "Sam", LastName: "Reyes"}).Name())
	assert.Equal(t, "Sam", (&User{FirstName: "Sam"}).Name())
	assert.Equal(t, "Reyes", (&User{LastName: "Reyes"}).Name())
	assert.Equal(t, "", (&User{}).Name())
}

func TestUser_Merge(t *testing.T) {
	u := User{ID: 1, Email: "old@example.com", FirstName: "Sam", MembershipStatus: MembershipVeteran}

	email := "new@example.com"
	phone := "+15555550123"
	merged := u.Merge(UserPatch{Email: &email, Phone: &phone})

	assert.Equal(t, "new@example.com", merged.Email)
	assert.Equal(t, "+15555550123", merged.Phone)
	assert.Equal(t, "Sam", merged.FirstName, "unset fields untouched")
	assert.Equal(t, MembershipVeteran, merged.MembershipStatus)
	assert.Equal(t, "old@example.com", u.Email, "receiver not mutated")
}

func TestUser_IsBusinessOwner(t *testing.T) {
	assert.True(t, (&User{Role: RoleBusinessOwner}).IsBusinessOwner())
	assert.False(t, (&User{Role: RoleCustomer}).IsBusinessOwner())
}

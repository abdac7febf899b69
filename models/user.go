package models

import "time"

// User is a marketplace account. Role decides which side of the
// marketplace the account belongs to: "buyer", "vendor" or "admin".
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	BusinessName  string    `json:"business_name,omitempty" bson:"business_name,omitempty"` // vendors only
	Addresses     []Address `json:"addresses,omitempty" bson:"addresses,omitempty"`         // buyers only
	Avatar        string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsVerified    bool      `json:"is_verified" bson:"is_verified"`
	PushTokens    []string  `json:"-" bson:"push_tokens,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Role {
		if r == role {
			return true
		}
	}
	return false
}

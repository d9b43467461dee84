package models

import (
	"strings"
	"time"
)

// User is the full identity record as held by a store. It carries the
// password hash and must not leave the service layer; use PublicUser.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Address      string
	Phone        string
	CreatedAt    time.Time
}

// EmailKey returns the normalized form used for uniqueness and lookups.
// Emails are stored as given (trimmed) but compared case-insensitively.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFields is the input accepted when registering a user.
type UserFields struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// UserPatch is a partial update. Nil fields are left unchanged.
//
// Password is plaintext here and PasswordHash is what stores apply; the
// identity service converts one into the other before calling a store.
type UserPatch struct {
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	PasswordHash *string `json:"-"`
	Username     *string `json:"username,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// Apply copies the set fields of p onto u. ID and CreatedAt are never touched.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
}

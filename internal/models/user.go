package models

import "time"

type User struct {
	ID string
	// GoogleID is the identity provider subject id.
	GoogleID  string
	Email     string
	Name      string
	Picture   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the identity asserted by the provider after a successful login.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Differs reports whether the profile carries different display data than u.
func (p Profile) Differs(u *User) bool {
	return p.Email != u.Email || p.Name != u.Name || p.Picture != u.Picture
}

package entities

import "time"

// User is a registered account. Users are keyed globally by Username (case-sensitive).
type User struct {
	Username     string    `json:"username" validate:"required,username"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	DisplayName  string    `json:"display_name,omitempty" validate:"max=100"`
	CreatedAt    time.Time `json:"created_at"`
}

// Key implements recordstore.Record.
func (u User) Key() string {
	return u.Username
}

// Profile is the public view of a User.
type Profile struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile strips the credential from the user.
func (u User) Profile() Profile {
	return Profile{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

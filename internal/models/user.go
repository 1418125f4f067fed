package models

import "time"

// User represents a row of the users table owned by the account service
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar"`
	Role      string    `json:"role" db:"role"` // 'seeker' or 'coach'
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Profile is the public view of a user shown next to a conversation
type Profile struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Contact string  `json:"contact"`
	Avatar  *string `json:"avatar,omitempty"`
}

// ToProfile converts User to Profile
func (u *User) ToProfile() Profile {
	return Profile{
		ID:      u.ID,
		Name:    u.Name,
		Contact: u.Email,
		Avatar:  u.Avatar,
	}
}

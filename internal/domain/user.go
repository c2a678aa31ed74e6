package domain

import "time"

// User represents a registered library member.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized.
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the user shape exposed by the profile API.
type PublicUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Public returns the API-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}
}

// InitTimestamps sets CreatedAt and UpdatedAt to now.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}

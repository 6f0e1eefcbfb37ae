package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	ProfilePicture string    `json:"profile_picture"`
	PasswordHash   string    `json:"-"` // Never expose this to the client
	CreatedAt      time.Time `json:"created_at"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are
// left untouched by an update.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Username    string
	PhoneNumber string
}

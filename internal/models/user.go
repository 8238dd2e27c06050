// Package models contains data structures for the application's domain models.
package models

import "time"

// UserRole defines the permission level of a user account.
type UserRole string

const (
	// RoleAuthor is the default role for new accounts.
	RoleAuthor UserRole = "author"
	// RoleModerator can moderate community content.
	RoleModerator UserRole = "moderator"
	// RoleAdmin has full administrative privileges.
	RoleAdmin UserRole = "admin"
)

// User represents a member of the writing community.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:50;unique;not null" json:"username"`
	Email          string    `gorm:"size:100;unique;not null" json:"email"`
	Password       string    `gorm:"size:200;not null" json:"-"`
	FirstName      string    `gorm:"size:50" json:"first_name"`
	LastName       string    `gorm:"size:50" json:"last_name"`
	Bio            string    `gorm:"type:text" json:"bio"`
	ProfilePicture string    `gorm:"size:200" json:"profile_picture"`
	Role           UserRole  `gorm:"type:varchar(20);not null;default:'author'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the compact user shape embedded in nested responses.
type UserSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Summary returns the compact representation of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

package models

import "time"

// User roles.
const (
	// RoleEntry marks a data-entry account.
	RoleEntry = "entry"
	// RoleAdmin marks an administrator account.
	RoleAdmin = "admin"
)

// User is an application account with role-based access.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"user_id"` // Primary key.

	Username     string `gorm:"type:text;not null;uniqueIndex" json:"username"` // Unique login name.
	PasswordHash string `gorm:"type:text;not null" json:"-"`                    // bcrypt hash.
	Role         string `gorm:"type:text;not null;default:entry" json:"role"`   // "entry" or "admin".
	FullName     string `gorm:"type:text" json:"full_name"`                     // Display name.
	Active       bool   `gorm:"not null;default:true" json:"active"`            // Whether the user can sign in.

	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	LastLogin *time.Time `json:"last_login"`                                // Last successful login.
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

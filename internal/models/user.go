package models

import "time"

// UserRole represents the two dashboard roles: administrators see every
// college, plain users are scoped to their college and category.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents an application user stored in the users table. Email is
// unique case-insensitively and stored lowercase. College and Category are
// required when Role is RoleUser and meaningless for admins.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	College      string    `db:"college" json:"college,omitempty"`
	Category     string    `db:"category" json:"category,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

package models

// Role identifies what a user account may do.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User defines the user model based on the 'users' table
type User struct {
	UserID       string `json:"user_id" db:"user_id" validate:"notblank,max=64"` // Natural key chosen at registration
	PasswordHash string `json:"-" db:"password_hash"`                           // bcrypt hash, never serialised
	DisplayName  string `json:"name" db:"name" validate:"notblank,max=100"`
	Role         Role   `json:"role" db:"role" validate:"oneof=admin student"`
}

package types

import "time"

// Roles a user account may hold.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user. IDs are assigned
	// sequentially at registration time.
	ID int `json:"id"`

	// Username is the unique login name chosen by the user.
	// Uniqueness is enforced case-insensitively.
	Username string `json:"username"`

	// Role indicates the user's authorization level within the
	// system ("User" or "Admin").
	Role string `json:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

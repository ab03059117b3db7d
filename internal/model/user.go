package model

import "time"

// Role values stored in users.role. Regular accounts manage only their
// own bookings; the admin account can view and manage every booking.
const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique display name.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – explicit role ("regular" or "admin").
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

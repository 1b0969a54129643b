// Package models contains the domain structures shared between the
// services and the storage layer, plus the request/response shapes used
// by the HTTP handlers.
package models

// User roles. A role is assigned at registration and never changes.
const (
	RoleProvider  = "provider"
	RolePurchaser = "purchaser"
)

// User represents a registered account.
type User struct {
	ID           int64  // Stable unique identifier
	Username     string // Unique, case-sensitive
	Email        string // Unique, case-sensitive
	PasswordHash string // bcrypt hash, never serialized
	Role         string // RoleProvider or RolePurchaser
}

// UserView is the public projection of a user returned by the purchaser
// listing. It deliberately omits the password hash.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// View returns the serializable projection of the user.
func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Package access decides who the caller is and whether their role may run an operation.
package access

import "dnaarchive/internal/model"

// AuthenticatedUser is the resolved caller shared by middleware, handlers and services.
type AuthenticatedUser struct {
	ID    uint           `json:"user_id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.RoleName `json:"role"` // empty when the user has no role
}

// FromModel projects a persisted user; the role must have been preloaded
func FromModel(u *model.User) AuthenticatedUser {
	return AuthenticatedUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.RoleName(),
	}
}

package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleForeman UserRole = "FOREMAN"
	RoleViewer  UserRole = "VIEWER"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleForeman, RoleViewer:
		return true
	}
	return false
}

// Roles allowed to read schedules and policies, move day cards, and change policies.
var (
	ReadRoles     = []UserRole{RoleAdmin, RoleManager, RoleForeman, RoleViewer}
	MoveRoles     = []UserRole{RoleAdmin, RoleManager, RoleForeman}
	PolicyRoles   = []UserRole{RoleAdmin, RoleManager}
	OperatorRoles = []UserRole{RoleAdmin}
)

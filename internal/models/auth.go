package models

import "github.com/golang-jwt/jwt/v5"

// UserRole scopes what an authenticated caller may do.
type UserRole string

// Recognized caller roles.
const (
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
	RoleService UserRole = "service"
)

// JWTClaims represents the JWT payload for access tokens issued by the
// surrounding product. This service only validates tokens; it never issues
// them.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

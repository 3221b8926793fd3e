package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims represents the JWT claims accepted by the service.
// Only the subject is required; it becomes the acting user ID.
type UserClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"`
	SessionID            string `json:"session_id,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}

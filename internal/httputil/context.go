package httputil

import (
	"context"
	"net/http"

	"cabinets/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey contextKey = "claims"
)

// WithClaims stores the verified token claims in the request context
func WithClaims(r *http.Request, claims *models.UserClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims returns the verified claims, or nil for anonymous requests
func GetClaims(r *http.Request) *models.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.UserClaims)
	return claims
}

// GetUserID returns the acting user's ID, or "" when not authenticated
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}

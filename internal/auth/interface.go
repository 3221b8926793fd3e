package auth

import "cabinets/internal/domain/models"

// JWTVerifier validates bearer tokens. The auth middleware depends only on
// this interface, so JWKS and shared-secret verification are interchangeable.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Invalid, expired or wrongly signed tokens yield domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}

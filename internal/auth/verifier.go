package auth

import (
	"context"
	"errors"
	"log/slog"

	"cabinets/internal/config"
)

// NewVerifier picks the verifier for the configuration: JWKS when a URL is
// set, otherwise the shared secret
func NewVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (JWTVerifier, error) {
	switch {
	case cfg.JWKSURL != "":
		return NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	case cfg.JWTSecret != "":
		logger.Warn("using shared-secret JWT verification", "environment", cfg.Environment)
		return NewHMACVerifier(cfg.JWTSecret, logger)
	default:
		return nil, errors.New("either JWKS_URL or JWT_SECRET must be set")
	}
}

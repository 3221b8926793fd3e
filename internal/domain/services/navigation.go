package services

import (
	"context"

	"cabinets/internal/domain/models"
)

// ResolvedLink is a menu link the user may follow
type ResolvedLink struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// NavigationService resolves menus into links filtered by access
type NavigationService interface {
	// Resolve returns the links of menu bound to source. When obj is set the
	// link URLs are expanded with its ID and guarded by access on it.
	Resolve(ctx context.Context, userID, menu, source string, obj *models.ObjectRef) ([]ResolvedLink, error)
}

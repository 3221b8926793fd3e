package service

import (
	"context"
	"log/slog"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
	"cabinets/internal/registry"
)

type navigationService struct {
	registry   *registry.Registry
	authorizer services.Authorizer
	logger     *slog.Logger
}

// NewNavigationService creates a menu resolver backed by the registry
func NewNavigationService(reg *registry.Registry, authorizer services.Authorizer, logger *slog.Logger) services.NavigationService {
	return &navigationService{
		registry:   reg,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Resolve returns the links of a menu the user may follow. Links guarded by
// a permission that applies to obj's type are checked against obj (with
// inheritance), others against the user's global grants.
func (s *navigationService) Resolve(ctx context.Context, userID, menu, source string, obj *models.ObjectRef) ([]services.ResolvedLink, error) {
	links, err := s.registry.MenuLinks(menu, source)
	if err != nil {
		return nil, invalidChoice("menu", menu)
	}

	resolved := make([]services.ResolvedLink, 0, len(links))
	for _, link := range links {
		if link.Permission != "" {
			var err error
			if obj != nil && s.registry.IsModelPermission(obj.Type, link.Permission) {
				err = s.authorizer.CheckAccess(ctx, userID, *obj, link.Permission)
			} else {
				err = s.authorizer.CheckPermission(ctx, userID, link.Permission)
			}
			if isForbidden(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}

		url := link.URL
		if obj != nil {
			url = link.ExpandURL(obj.ID)
		}
		resolved = append(resolved, services.ResolvedLink{
			Name:   link.Name,
			Text:   link.Text,
			Method: link.Method,
			URL:    url,
		})
	}

	s.logger.Debug("menu resolved", "menu", menu, "source", source, "links", len(resolved))
	return resolved, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
	"cabinets/internal/registry"
)

type accessService struct {
	accessRepo  repositories.AccessRepository
	cabinetRepo repositories.CabinetRepository
	docRepo     repositories.DocumentRepository
	registry    *registry.Registry
	logger      *slog.Logger

	// guard authorizes ACL management; the service itself unless overridden
	guard services.Authorizer
}

// NewAccessService creates the ACL-backed access service.
// A check passes when the user holds the permission globally, on the
// object, or on the object's effective permission scope.
func NewAccessService(
	accessRepo repositories.AccessRepository,
	cabinetRepo repositories.CabinetRepository,
	docRepo repositories.DocumentRepository,
	reg *registry.Registry,
	logger *slog.Logger,
) services.AccessService {
	return newAccessService(accessRepo, cabinetRepo, docRepo, reg, logger, nil)
}

func newAccessService(
	accessRepo repositories.AccessRepository,
	cabinetRepo repositories.CabinetRepository,
	docRepo repositories.DocumentRepository,
	reg *registry.Registry,
	logger *slog.Logger,
	guard services.Authorizer,
) *accessService {
	s := &accessService{
		accessRepo:  accessRepo,
		cabinetRepo: cabinetRepo,
		docRepo:     docRepo,
		registry:    reg,
		logger:      logger,
		guard:       guard,
	}
	if s.guard == nil {
		s.guard = s
	}
	return s
}

// CheckPermission requires a global grant
func (s *accessService) CheckPermission(ctx context.Context, userID string, permission models.Permission) error {
	ok, err := s.accessRepo.HasPermission(ctx, userID, permission)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbidden(string(permission))
	}
	return nil
}

// CheckAccess requires a global grant or an entry on obj or its scope
func (s *accessService) CheckAccess(ctx context.Context, userID string, obj models.ObjectRef, permission models.Permission) error {
	ok, err := s.accessRepo.HasPermission(ctx, userID, permission)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	scope, err := s.EffectivePermissionScope(ctx, obj)
	if err != nil {
		return err
	}

	ids := []string{obj.ID}
	if scope.ID != obj.ID {
		ids = append(ids, scope.ID)
	}

	ok, err = s.accessRepo.HasAccess(ctx, userID, obj.Type, ids, permission)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbidden(string(permission))
	}
	return nil
}

// FilterAllowed returns the IDs the user holds permission on, order preserved
func (s *accessService) FilterAllowed(ctx context.Context, userID string, objectType models.ObjectType, ids []string, permission models.Permission) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	global, err := s.accessRepo.HasPermission(ctx, userID, permission)
	if err != nil {
		return nil, err
	}
	if global {
		return ids, nil
	}

	granted, err := s.accessRepo.ListObjectIDs(ctx, userID, objectType, permission)
	if err != nil {
		return nil, err
	}
	grantedSet := make(map[string]bool, len(granted))
	for _, id := range granted {
		grantedSet[id] = true
	}

	scopeOf := func(id string) string { return id }
	if objectType == models.ObjectTypeCabinet && s.registry.Inherits(objectType) {
		all, err := s.cabinetRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		scopeOf = newForest(all).root
	}

	allowed := make([]string, 0, len(ids))
	for _, id := range ids {
		if grantedSet[id] || grantedSet[scopeOf(id)] {
			allowed = append(allowed, id)
		}
	}
	return allowed, nil
}

// EffectivePermissionScope returns the root cabinet for cabinets (when the
// registry declares root inheritance) and the object itself otherwise
func (s *accessService) EffectivePermissionScope(ctx context.Context, obj models.ObjectRef) (models.ObjectRef, error) {
	if obj.Type != models.ObjectTypeCabinet || !s.registry.Inherits(obj.Type) {
		return obj, nil
	}

	root, err := Root(ctx, s.cabinetRepo, obj.ID)
	if err != nil {
		return models.ObjectRef{}, err
	}
	return models.CabinetRef(root.ID), nil
}

// GrantPermission gives a user a declared permission globally
func (s *accessService) GrantPermission(ctx context.Context, userID string, permission models.Permission) error {
	if err := s.validatePermission(userID, permission); err != nil {
		return err
	}
	if err := s.accessRepo.GrantPermission(ctx, userID, permission); err != nil {
		return err
	}

	s.logger.Info("permission granted", "user_id", userID, "permission", permission)
	return nil
}

// RevokePermission removes a global grant
func (s *accessService) RevokePermission(ctx context.Context, userID string, permission models.Permission) error {
	if err := s.validatePermission(userID, permission); err != nil {
		return err
	}
	if err := s.accessRepo.RevokePermission(ctx, userID, permission); err != nil {
		return err
	}

	s.logger.Info("permission revoked", "user_id", userID, "permission", permission)
	return nil
}

// GrantAccess adds an access entry; actorID needs acl_edit on the object
func (s *accessService) GrantAccess(ctx context.Context, actorID string, entry *models.AccessEntry) error {
	obj := models.ObjectRef{Type: entry.ObjectType, ID: entry.ObjectID}
	if err := s.prepareEntryChange(ctx, actorID, obj, entry); err != nil {
		return err
	}
	if err := s.accessRepo.GrantAccess(ctx, entry); err != nil {
		return err
	}

	s.logger.Info("access granted",
		"actor_id", actorID,
		"user_id", entry.UserID,
		"object_type", entry.ObjectType,
		"object_id", entry.ObjectID,
		"permission", entry.Permission,
	)
	return nil
}

// RevokeAccess removes an access entry; actorID needs acl_edit on the object
func (s *accessService) RevokeAccess(ctx context.Context, actorID string, entry *models.AccessEntry) error {
	obj := models.ObjectRef{Type: entry.ObjectType, ID: entry.ObjectID}
	if err := s.prepareEntryChange(ctx, actorID, obj, entry); err != nil {
		return err
	}
	if err := s.accessRepo.RevokeAccess(ctx, entry.UserID, obj, entry.Permission); err != nil {
		return err
	}

	s.logger.Info("access revoked",
		"actor_id", actorID,
		"user_id", entry.UserID,
		"object_type", entry.ObjectType,
		"object_id", entry.ObjectID,
		"permission", entry.Permission,
	)
	return nil
}

// ListAccess lists an object's entries; actorID needs acl_view on it
func (s *accessService) ListAccess(ctx context.Context, actorID string, obj models.ObjectRef) ([]models.AccessEntry, error) {
	if err := s.requireObject(ctx, obj); err != nil {
		return nil, err
	}
	if err := s.guard.CheckAccess(ctx, actorID, obj, models.PermissionACLView); err != nil {
		return nil, err
	}
	return s.accessRepo.ListAccess(ctx, obj)
}

func (s *accessService) prepareEntryChange(ctx context.Context, actorID string, obj models.ObjectRef, entry *models.AccessEntry) error {
	if err := s.requireObject(ctx, obj); err != nil {
		return err
	}
	if err := s.guard.CheckAccess(ctx, actorID, obj, models.PermissionACLEdit); err != nil {
		return err
	}
	if entry.UserID == "" {
		return required("user_id")
	}
	if !s.registry.IsModelPermission(obj.Type, entry.Permission) {
		return invalidChoice("permission", string(entry.Permission))
	}
	return nil
}

func (s *accessService) validatePermission(userID string, permission models.Permission) error {
	if userID == "" {
		return required("user_id")
	}
	if _, ok := s.registry.Permission(permission); !ok {
		return invalidChoice("permission", string(permission))
	}
	return nil
}

// requireObject fails with NotFoundError when obj does not exist
func (s *accessService) requireObject(ctx context.Context, obj models.ObjectRef) error {
	var err error
	switch obj.Type {
	case models.ObjectTypeCabinet:
		_, err = s.cabinetRepo.GetByID(ctx, obj.ID)
	case models.ObjectTypeDocument:
		_, err = s.docRepo.GetByID(ctx, obj.ID)
	default:
		return invalidChoice("object_type", string(obj.Type))
	}
	return err
}

// SystemAuthorizer allows everything. Used by trusted tooling such as the admin CLI.
type SystemAuthorizer struct{}

func (SystemAuthorizer) CheckPermission(context.Context, string, models.Permission) error {
	return nil
}

func (SystemAuthorizer) CheckAccess(context.Context, string, models.ObjectRef, models.Permission) error {
	return nil
}

func (SystemAuthorizer) FilterAllowed(_ context.Context, _ string, _ models.ObjectType, ids []string, _ models.Permission) ([]string, error) {
	return ids, nil
}

// isForbidden reports whether err is an authorization denial
func isForbidden(err error) bool {
	return errors.Is(err, domain.ErrForbidden)
}

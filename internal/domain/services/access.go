package services

import (
	"context"

	"cabinets/internal/domain/models"
)

// Authorizer checks whether a user may perform an operation.
// Denials are returned as *domain.ForbiddenError.
type Authorizer interface {
	// CheckPermission requires a global grant
	CheckPermission(ctx context.Context, userID string, permission models.Permission) error

	// CheckAccess requires a grant that is global, on the object, or on the
	// object's inherited scope
	CheckAccess(ctx context.Context, userID string, obj models.ObjectRef, permission models.Permission) error

	// FilterAllowed returns the subset of IDs (order preserved) the user holds permission on
	FilterAllowed(ctx context.Context, userID string, objectType models.ObjectType, ids []string, permission models.Permission) ([]string, error)
}

// AccessService manages permission grants and per-object access entries
type AccessService interface {
	Authorizer

	GrantPermission(ctx context.Context, userID string, permission models.Permission) error
	RevokePermission(ctx context.Context, userID string, permission models.Permission) error

	// GrantAccess grants on behalf of actorID, who needs acl_edit on the object
	GrantAccess(ctx context.Context, actorID string, entry *models.AccessEntry) error
	RevokeAccess(ctx context.Context, actorID string, entry *models.AccessEntry) error

	// ListAccess lists an object's entries; actorID needs acl_view
	ListAccess(ctx context.Context, actorID string, obj models.ObjectRef) ([]models.AccessEntry, error)

	// EffectivePermissionScope returns the object whose entries also apply to obj
	EffectivePermissionScope(ctx context.Context, obj models.ObjectRef) (models.ObjectRef, error)
}

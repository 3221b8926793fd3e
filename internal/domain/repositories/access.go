package repositories

import (
	"context"

	"cabinets/internal/domain/models"
)

// AccessRepository stores global permission grants and per-object access entries
type AccessRepository interface {
	// GrantPermission gives userID a permission globally (idempotent)
	GrantPermission(ctx context.Context, userID string, permission models.Permission) error

	// RevokePermission removes a global grant (idempotent)
	RevokePermission(ctx context.Context, userID string, permission models.Permission) error

	// HasPermission reports whether userID holds permission globally
	HasPermission(ctx context.Context, userID string, permission models.Permission) (bool, error)

	// ListPermissions lists a user's global grants
	ListPermissions(ctx context.Context, userID string) ([]models.PermissionGrant, error)

	// GrantAccess stores an access entry (idempotent)
	GrantAccess(ctx context.Context, entry *models.AccessEntry) error

	// RevokeAccess removes an access entry (idempotent)
	RevokeAccess(ctx context.Context, userID string, obj models.ObjectRef, permission models.Permission) error

	// HasAccess reports whether userID holds permission on any of objectIDs
	HasAccess(ctx context.Context, userID string, objectType models.ObjectType, objectIDs []string, permission models.Permission) (bool, error)

	// ListAccess lists the access entries attached to an object
	ListAccess(ctx context.Context, obj models.ObjectRef) ([]models.AccessEntry, error)

	// ListObjectIDs lists the objects of a type a user holds permission on
	ListObjectIDs(ctx context.Context, userID string, objectType models.ObjectType, permission models.Permission) ([]string, error)

	// DeleteForObjects removes every access entry attached to the given objects
	DeleteForObjects(ctx context.Context, objectType models.ObjectType, objectIDs []string) error
}

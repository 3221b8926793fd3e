package models

import (
	"strings"
	"time"
)

// Permission is a namespaced permission identifier, e.g. "cabinets.cabinet_view"
type Permission string

// Cabinet permissions
const (
	PermissionCabinetAddDocument    Permission = "cabinets.cabinet_add_document"
	PermissionCabinetCreate         Permission = "cabinets.cabinet_create"
	PermissionCabinetDelete         Permission = "cabinets.cabinet_delete"
	PermissionCabinetEdit           Permission = "cabinets.cabinet_edit"
	PermissionCabinetRemoveDocument Permission = "cabinets.cabinet_remove_document"
	PermissionCabinetView           Permission = "cabinets.cabinet_view"
)

// Access control list permissions
const (
	PermissionACLEdit Permission = "acls.acl_edit"
	PermissionACLView Permission = "acls.acl_view"
)

// Namespace returns the part before the dot
func (p Permission) Namespace() string {
	ns, _, _ := strings.Cut(string(p), ".")
	return ns
}

// Name returns the part after the dot
func (p Permission) Name() string {
	_, name, _ := strings.Cut(string(p), ".")
	return name
}

// ObjectType names a kind of object that access entries can point at
type ObjectType string

const (
	ObjectTypeCabinet  ObjectType = "cabinet"
	ObjectTypeDocument ObjectType = "document"
)

// ObjectRef identifies a single object for access checks
type ObjectRef struct {
	Type ObjectType `json:"type"`
	ID   string     `json:"id"`
}

// CabinetRef returns an ObjectRef for a cabinet ID
func CabinetRef(id string) ObjectRef {
	return ObjectRef{Type: ObjectTypeCabinet, ID: id}
}

// DocumentRef returns an ObjectRef for a document ID
func DocumentRef(id string) ObjectRef {
	return ObjectRef{Type: ObjectTypeDocument, ID: id}
}

// PermissionGrant gives a user a permission on every object (role-style grant)
type PermissionGrant struct {
	UserID     string     `json:"user_id" db:"user_id"`
	Permission Permission `json:"permission" db:"permission"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// AccessEntry gives a user a permission on one object
type AccessEntry struct {
	UserID     string     `json:"user_id" db:"user_id"`
	ObjectType ObjectType `json:"object_type" db:"object_type"`
	ObjectID   string     `json:"object_id" db:"object_id"`
	Permission Permission `json:"permission" db:"permission"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

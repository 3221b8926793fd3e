package models

import (
	"time"
)

// PathSeparator joins cabinet labels into a display path
const PathSeparator = " / "

type Cabinet struct {
	ID        string    `json:"id" db:"id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root cabinet
	Label     string    `json:"label" db:"label"`
	Path      string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the cabinet has no parent
func (c *Cabinet) IsRoot() bool {
	return c.ParentID == nil
}

// SameParent reports whether both parent references point to the same node
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CabinetTreeNode represents a cabinet in the forest with nested children
type CabinetTreeNode struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	ParentID      *string            `json:"parent_id"`
	Path          string             `json:"path"`
	CreatedAt     time.Time          `json:"created_at"`
	DocumentCount int                `json:"document_count"`
	Children      []*CabinetTreeNode `json:"children"` // Pointers for proper nesting
}

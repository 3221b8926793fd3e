package services

import (
	"context"
	"iter"

	"cabinets/internal/domain/models"
)

// CabinetService handles the cabinet hierarchy and document membership.
// Every method that takes a request authorizes req.UserID first.
type CabinetService interface {
	// CreateCabinet creates a root cabinet, or a child when ParentID is set
	CreateCabinet(ctx context.Context, req *CreateCabinetRequest) (*models.Cabinet, error)

	// GetCabinet retrieves a cabinet with its computed path
	GetCabinet(ctx context.Context, userID, id string) (*models.Cabinet, error)

	// EditCabinet renames a cabinet
	EditCabinet(ctx context.Context, req *EditCabinetRequest) (*models.Cabinet, error)

	// MoveCabinet re-parents a cabinet (nil ParentID = make it a root)
	MoveCabinet(ctx context.Context, req *MoveCabinetRequest) (*models.Cabinet, error)

	// DeleteCabinet deletes a cabinet, its descendants and their memberships.
	// Documents are never deleted.
	DeleteCabinet(ctx context.Context, userID, id string) error

	// ListCabinets lists the cabinets the user may view, ordered by path
	ListCabinets(ctx context.Context, userID string) ([]models.Cabinet, error)

	// ListChildren lists the immediate children the user may view
	ListChildren(ctx context.Context, userID, id string) ([]models.Cabinet, error)

	// Tree returns the forest of cabinets the user may view
	Tree(ctx context.Context, userID string) ([]*models.CabinetTreeNode, error)

	// GetRoot returns the top-most ancestor (the cabinet itself for roots)
	GetRoot(ctx context.Context, id string) (*models.Cabinet, error)

	// Ancestors yields parent, grandparent, ... up to the root
	Ancestors(ctx context.Context, id string) iter.Seq2[*models.Cabinet, error]

	// Descendants yields every cabinet below id, depth first
	Descendants(ctx context.Context, id string) iter.Seq2[*models.Cabinet, error]

	// ListDocuments lists a cabinet's documents in insertion order
	ListDocuments(ctx context.Context, userID, id string) ([]models.Document, error)
}

// MembershipService files documents into cabinets
type MembershipService interface {
	// AddDocuments files DocumentIDs into every cabinet in CabinetIDs (idempotent)
	AddDocuments(ctx context.Context, req *MembershipRequest) error

	// RemoveDocuments unfiles DocumentIDs from every cabinet in CabinetIDs (idempotent)
	RemoveDocuments(ctx context.Context, req *MembershipRequest) error

	// ListDocumentCabinets lists the cabinets containing a document the user may view
	ListDocumentCabinets(ctx context.Context, userID, documentID string) ([]models.Cabinet, error)

	// SearchDocuments finds documents filed in cabinets whose label contains query
	SearchDocuments(ctx context.Context, userID, query string) ([]models.Document, error)
}

// CreateCabinetRequest represents a cabinet creation request
type CreateCabinetRequest struct {
	UserID   string  `json:"-"`
	Label    string  `json:"label"`
	ParentID *string `json:"parent_id,omitempty"` // nil for root cabinets
}

// EditCabinetRequest represents a cabinet rename request
type EditCabinetRequest struct {
	UserID string `json:"-"`
	ID     string `json:"-"`
	Label  string `json:"label"`
}

// MoveCabinetRequest represents a cabinet re-parent request
type MoveCabinetRequest struct {
	UserID   string  `json:"-"`
	ID       string  `json:"-"`
	ParentID *string `json:"parent_id"` // nil = make root
}

// MembershipRequest files or unfiles documents.
// DocumentField names the input field document errors are reported on.
// Selection marks DocumentIDs as picked from a list rather than addressed
// by path: unknown documents are then field errors instead of NotFound.
type MembershipRequest struct {
	UserID        string
	DocumentIDs   []string
	CabinetIDs    []string
	DocumentField string
	Selection     bool
}

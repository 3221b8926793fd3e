package repositories

import (
	"context"

	"cabinets/internal/domain/models"
)

// CabinetRepository defines data access operations for cabinets
type CabinetRepository interface {
	// Create inserts a new cabinet. A sibling label collision surfaces as
	// *domain.DuplicateLabelError.
	Create(ctx context.Context, cabinet *models.Cabinet) error

	// GetByID retrieves a cabinet by ID
	GetByID(ctx context.Context, id string) (*models.Cabinet, error)

	// GetByLabel finds a cabinet by label under a parent (nil = roots).
	// Returns nil, nil when absent.
	GetByLabel(ctx context.Context, parentID *string, label string) (*models.Cabinet, error)

	// Update persists label and parent changes
	Update(ctx context.Context, cabinet *models.Cabinet) error

	// DeleteSubtree deletes a cabinet, its descendants and their memberships.
	// Returns the IDs of every deleted cabinet.
	DeleteSubtree(ctx context.Context, id string) ([]string, error)

	// ListChildren lists immediate children ordered by label (nil = roots)
	ListChildren(ctx context.Context, parentID *string) ([]models.Cabinet, error)

	// ListAll retrieves every cabinet (flat list)
	ListAll(ctx context.Context) ([]models.Cabinet, error)

	// GetPath computes the display path of a cabinet
	GetPath(ctx context.Context, id string) (string, error)

	// ListByDocument lists the cabinets containing a document, ordered by label
	ListByDocument(ctx context.Context, documentID string) ([]models.Cabinet, error)
}

// DocumentCabinetRepository manages cabinet/document memberships
type DocumentCabinetRepository interface {
	// Add files documents into a cabinet. Already present documents are
	// skipped. Returns the document IDs actually added.
	Add(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error)

	// Remove unfiles documents. Absent documents are skipped.
	// Returns the document IDs actually removed.
	Remove(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error)

	// ListDocuments lists a cabinet's documents in insertion order
	ListDocuments(ctx context.Context, cabinetID string) ([]models.Document, error)

	// Count returns the number of documents in a cabinet
	Count(ctx context.Context, cabinetID string) (int, error)

	// CountAll returns document counts keyed by cabinet ID
	CountAll(ctx context.Context) (map[string]int, error)
}

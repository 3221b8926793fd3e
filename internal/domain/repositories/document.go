package repositories

import (
	"context"

	"cabinets/internal/domain/models"
)

// DocumentRepository reads document references owned by the document subsystem
type DocumentRepository interface {
	// Create registers a document reference
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// SearchByCabinetLabel finds documents filed in a cabinet whose label
	// contains query (case-insensitive)
	SearchByCabinetLabel(ctx context.Context, query string) ([]models.Document, error)
}

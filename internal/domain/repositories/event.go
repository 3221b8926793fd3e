package repositories

import (
	"context"

	"cabinets/internal/domain/models"
)

// EventRepository persists the event log
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error

	// ListByTarget lists events about one object, newest first
	ListByTarget(ctx context.Context, target models.ObjectRef, limit int) ([]models.Event, error)

	// List lists the most recent events, newest first
	List(ctx context.Context, limit int) ([]models.Event, error)
}

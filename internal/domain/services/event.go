package services

import (
	"context"

	"cabinets/internal/domain/models"
)

// EventCommit describes an occurrence to record
type EventCommit struct {
	Namespace    string
	Name         string
	ActorID      string
	Target       models.ObjectRef
	ActionObject *models.ObjectRef
}

// EventService records and publishes events of declared types
type EventService interface {
	// Record validates the type and persists the event. It joins the
	// transaction carried by ctx, if any, and does not publish.
	Record(ctx context.Context, commit EventCommit) (*models.Event, error)

	// Publish delivers recorded events. Failures are logged, not returned.
	Publish(ctx context.Context, events ...*models.Event)

	// Commit records and publishes in one step
	Commit(ctx context.Context, commit EventCommit) (*models.Event, error)

	// ListEvents lists events about an object the user may view, newest first
	ListEvents(ctx context.Context, userID string, target models.ObjectRef, limit int) ([]models.Event, error)

	// ListRecent lists the most recent events, newest first
	ListRecent(ctx context.Context, limit int) ([]models.Event, error)
}

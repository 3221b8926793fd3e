package service

import (
	"context"
	"log/slog"
	"time"

	"cabinets/internal/config"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
	"cabinets/internal/events"
	"cabinets/internal/registry"
)

type eventService struct {
	eventRepo  repositories.EventRepository
	registry   *registry.Registry
	publisher  events.Publisher
	authorizer services.Authorizer
	logger     *slog.Logger
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repositories.EventRepository,
	reg *registry.Registry,
	publisher events.Publisher,
	authorizer services.Authorizer,
	logger *slog.Logger,
) services.EventService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &eventService{
		eventRepo:  eventRepo,
		registry:   reg,
		publisher:  publisher,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Record validates and persists an event without publishing it
func (s *eventService) Record(ctx context.Context, commit services.EventCommit) (*models.Event, error) {
	if _, err := s.registry.EventType(commit.Namespace, commit.Name); err != nil {
		return nil, &domain.ValidationError{Field: "event_type", Message: err.Error()}
	}
	if commit.Target.ID == "" {
		return nil, required("target")
	}

	event := &models.Event{
		Namespace:  commit.Namespace,
		Name:       commit.Name,
		ActorID:    commit.ActorID,
		TargetType: commit.Target.Type,
		TargetID:   commit.Target.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if commit.ActionObject != nil {
		objType := string(commit.ActionObject.Type)
		objID := commit.ActionObject.ID
		event.ActionObjectType = &objType
		event.ActionObjectID = &objID
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Publish delivers events; failures are logged only
func (s *eventService) Publish(ctx context.Context, evts ...*models.Event) {
	for _, event := range evts {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish event",
				"event_id", event.ID,
				"type", event.Type(),
				"error", err,
			)
			continue
		}
		s.logger.Debug("event published", "event_id", event.ID, "type", event.Type())
	}
}

// Commit records and publishes an event
func (s *eventService) Commit(ctx context.Context, commit services.EventCommit) (*models.Event, error) {
	event, err := s.Record(ctx, commit)
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, event)
	return event, nil
}

// ListEvents lists events about an object; cabinets require view access
func (s *eventService) ListEvents(ctx context.Context, userID string, target models.ObjectRef, limit int) ([]models.Event, error) {
	if target.Type == models.ObjectTypeCabinet {
		if err := s.authorizer.CheckAccess(ctx, userID, target, models.PermissionCabinetView); err != nil {
			return nil, err
		}
	}
	return s.eventRepo.ListByTarget(ctx, target, clampLimit(limit))
}

// ListRecent lists the most recent events
func (s *eventService) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	return s.eventRepo.List(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return config.DefaultEventLimit
	case limit > config.MaxEventLimit:
		return config.MaxEventLimit
	default:
		return limit
	}
}

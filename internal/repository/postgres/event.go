package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cabinets/internal/database"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

const eventColumns = "id, namespace, name, actor_id, target_type, target_id, action_object_type, action_object_id, created_at"

// PostgresEventRepository implements the EventRepository interface
type PostgresEventRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
}

// NewEventRepository creates a new event repository
func NewEventRepository(config *RepositoryConfig) repositories.EventRepository {
	return &PostgresEventRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends an event to the log
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Events, eventColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		event.ID,
		event.Namespace,
		event.Name,
		event.ActorID,
		string(event.TargetType),
		event.TargetID,
		event.ActionObjectType,
		event.ActionObjectID,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListByTarget lists events about one object, newest first
func (r *PostgresEventRepository) ListByTarget(ctx context.Context, target models.ObjectRef, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, eventColumns, r.tables.Events)

	return r.queryEvents(ctx, query, string(target.Type), target.ID, limit)
}

// List lists the most recent events, newest first
func (r *PostgresEventRepository) List(ctx context.Context, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, eventColumns, r.tables.Events)

	return r.queryEvents(ctx, query, limit)
}

func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID,
			&e.Namespace,
			&e.Name,
			&e.ActorID,
			&e.TargetType,
			&e.TargetID,
			&e.ActionObjectType,
			&e.ActionObjectID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

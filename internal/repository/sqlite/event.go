package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"cabinets/internal/database"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

const eventColumns = "id, namespace, name, actor_id, target_type, target_id, action_object_type, action_object_id, created_at"

// SQLiteEventRepository implements the EventRepository interface
type SQLiteEventRepository struct {
	db     *sql.DB
	tables *database.TableNames
}

// NewEventRepository creates a new event repository
func NewEventRepository(config *RepositoryConfig) repositories.EventRepository {
	return &SQLiteEventRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Create appends an event to the log
func (r *SQLiteEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.tables.Events, eventColumns)

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		event.ID,
		event.Namespace,
		event.Name,
		event.ActorID,
		string(event.TargetType),
		event.TargetID,
		event.ActionObjectType,
		event.ActionObjectID,
		formatTime(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListByTarget lists events about one object, newest first
func (r *SQLiteEventRepository) ListByTarget(ctx context.Context, target models.ObjectRef, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE target_type = ? AND target_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, eventColumns, r.tables.Events)

	return r.queryEvents(ctx, query, string(target.Type), target.ID, limit)
}

// List lists the most recent events, newest first
func (r *SQLiteEventRepository) List(ctx context.Context, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, eventColumns, r.tables.Events)

	return r.queryEvents(ctx, query, limit)
}

func (r *SQLiteEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var createdAt string
		err := rows.Scan(
			&e.ID,
			&e.Namespace,
			&e.Name,
			&e.ActorID,
			&e.TargetType,
			&e.TargetID,
			&e.ActionObjectType,
			&e.ActionObjectID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

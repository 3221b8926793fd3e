package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cabinets/internal/database"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// PostgresAccessRepository implements the AccessRepository interface
type PostgresAccessRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(config *RepositoryConfig) repositories.AccessRepository {
	return &PostgresAccessRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GrantPermission gives userID a permission globally
func (r *PostgresAccessRepository) GrantPermission(ctx context.Context, userID string, permission models.Permission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, permission, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, permission) DO NOTHING
	`, r.tables.PermissionGrants)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, userID, string(permission), time.Now().UTC()); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// RevokePermission removes a global grant
func (r *PostgresAccessRepository) RevokePermission(ctx context.Context, userID string, permission models.Permission) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND permission = $2`, r.tables.PermissionGrants)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, userID, string(permission)); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// HasPermission reports whether userID holds permission globally
func (r *PostgresAccessRepository) HasPermission(ctx context.Context, userID string, permission models.Permission) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND permission = $2)
	`, r.tables.PermissionGrants)

	var ok bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID, string(permission)).Scan(&ok); err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return ok, nil
}

// ListPermissions lists a user's global grants
func (r *PostgresAccessRepository) ListPermissions(ctx context.Context, userID string) ([]models.PermissionGrant, error) {
	query := fmt.Sprintf(`
		SELECT user_id, permission, created_at FROM %s
		WHERE user_id = $1
		ORDER BY permission ASC
	`, r.tables.PermissionGrants)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	grants := []models.PermissionGrant{}
	for rows.Next() {
		var g models.PermissionGrant
		if err := rows.Scan(&g.UserID, &g.Permission, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return grants, nil
}

// GrantAccess stores an access entry
func (r *PostgresAccessRepository) GrantAccess(ctx context.Context, entry *models.AccessEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, object_type, object_id, permission, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, object_type, object_id, permission) DO NOTHING
	`, r.tables.AccessEntries)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		entry.UserID,
		string(entry.ObjectType),
		entry.ObjectID,
		string(entry.Permission),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	return nil
}

// RevokeAccess removes an access entry
func (r *PostgresAccessRepository) RevokeAccess(ctx context.Context, userID string, obj models.ObjectRef, permission models.Permission) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND object_type = $2 AND object_id = $3 AND permission = $4
	`, r.tables.AccessEntries)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, userID, string(obj.Type), obj.ID, string(permission)); err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}
	return nil
}

// HasAccess reports whether userID holds permission on any of objectIDs
func (r *PostgresAccessRepository) HasAccess(ctx context.Context, userID string, objectType models.ObjectType, objectIDs []string, permission models.Permission) (bool, error) {
	if len(objectIDs) == 0 {
		return false, nil
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE user_id = $1 AND object_type = $2 AND permission = $3 AND object_id = ANY($4)
		)
	`, r.tables.AccessEntries)

	var ok bool
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID, string(objectType), string(permission), objectIDs).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return ok, nil
}

// ListAccess lists the access entries attached to an object
func (r *PostgresAccessRepository) ListAccess(ctx context.Context, obj models.ObjectRef) ([]models.AccessEntry, error) {
	query := fmt.Sprintf(`
		SELECT user_id, object_type, object_id, permission, created_at FROM %s
		WHERE object_type = $1 AND object_id = $2
		ORDER BY user_id ASC, permission ASC
	`, r.tables.AccessEntries)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, string(obj.Type), obj.ID)
	if err != nil {
		return nil, fmt.Errorf("list access: %w", err)
	}
	defer rows.Close()

	entries := []models.AccessEntry{}
	for rows.Next() {
		var e models.AccessEntry
		if err := rows.Scan(&e.UserID, &e.ObjectType, &e.ObjectID, &e.Permission, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access entries: %w", err)
	}
	return entries, nil
}

// ListObjectIDs lists the objects of a type a user holds permission on
func (r *PostgresAccessRepository) ListObjectIDs(ctx context.Context, userID string, objectType models.ObjectType, permission models.Permission) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT object_id FROM %s
		WHERE user_id = $1 AND object_type = $2 AND permission = $3
	`, r.tables.AccessEntries)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID, string(objectType), string(permission))
	if err != nil {
		return nil, fmt.Errorf("list accessible objects: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan object id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate object ids: %w", err)
	}
	return ids, nil
}

// DeleteForObjects removes every access entry attached to the given objects
func (r *PostgresAccessRepository) DeleteForObjects(ctx context.Context, objectType models.ObjectType, objectIDs []string) error {
	if len(objectIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE object_type = $1 AND object_id = ANY($2)
	`, r.tables.AccessEntries)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, string(objectType), objectIDs); err != nil {
		return fmt.Errorf("delete access entries: %w", err)
	}
	return nil
}

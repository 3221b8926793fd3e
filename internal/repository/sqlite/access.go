package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cabinets/internal/database"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// SQLiteAccessRepository implements the AccessRepository interface
type SQLiteAccessRepository struct {
	db     *sql.DB
	tables *database.TableNames
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(config *RepositoryConfig) repositories.AccessRepository {
	return &SQLiteAccessRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// GrantPermission gives userID a permission globally
func (r *SQLiteAccessRepository) GrantPermission(ctx context.Context, userID string, permission models.Permission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, permission, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, permission) DO NOTHING
	`, r.tables.PermissionGrants)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, string(permission), formatTime(time.Now())); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// RevokePermission removes a global grant
func (r *SQLiteAccessRepository) RevokePermission(ctx context.Context, userID string, permission models.Permission) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND permission = ?`, r.tables.PermissionGrants)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, string(permission)); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// HasPermission reports whether userID holds permission globally
func (r *SQLiteAccessRepository) HasPermission(ctx context.Context, userID string, permission models.Permission) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = ? AND permission = ?)
	`, r.tables.PermissionGrants)

	var ok bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID, string(permission)).Scan(&ok); err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return ok, nil
}

// ListPermissions lists a user's global grants
func (r *SQLiteAccessRepository) ListPermissions(ctx context.Context, userID string) ([]models.PermissionGrant, error) {
	query := fmt.Sprintf(`
		SELECT user_id, permission, created_at FROM %s
		WHERE user_id = ?
		ORDER BY permission ASC
	`, r.tables.PermissionGrants)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	grants := []models.PermissionGrant{}
	for rows.Next() {
		var g models.PermissionGrant
		var createdAt string
		if err := rows.Scan(&g.UserID, &g.Permission, &createdAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		if g.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return grants, nil
}

// GrantAccess stores an access entry
func (r *SQLiteAccessRepository) GrantAccess(ctx context.Context, entry *models.AccessEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, object_type, object_id, permission, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, object_type, object_id, permission) DO NOTHING
	`, r.tables.AccessEntries)

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.UserID,
		string(entry.ObjectType),
		entry.ObjectID,
		string(entry.Permission),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	return nil
}

// RevokeAccess removes an access entry
func (r *SQLiteAccessRepository) RevokeAccess(ctx context.Context, userID string, obj models.ObjectRef, permission models.Permission) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = ? AND object_type = ? AND object_id = ? AND permission = ?
	`, r.tables.AccessEntries)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, string(obj.Type), obj.ID, string(permission)); err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}
	return nil
}

// HasAccess reports whether userID holds permission on any of objectIDs
func (r *SQLiteAccessRepository) HasAccess(ctx context.Context, userID string, objectType models.ObjectType, objectIDs []string, permission models.Permission) (bool, error) {
	if len(objectIDs) == 0 {
		return false, nil
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE user_id = ? AND object_type = ? AND permission = ? AND object_id IN (%s)
		)
	`, r.tables.AccessEntries, inClause(len(objectIDs)))

	args := append([]any{userID, string(objectType), string(permission)}, toArgs(objectIDs)...)

	var ok bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return ok, nil
}

// ListAccess lists the access entries attached to an object
func (r *SQLiteAccessRepository) ListAccess(ctx context.Context, obj models.ObjectRef) ([]models.AccessEntry, error) {
	query := fmt.Sprintf(`
		SELECT user_id, object_type, object_id, permission, created_at FROM %s
		WHERE object_type = ? AND object_id = ?
		ORDER BY user_id ASC, permission ASC
	`, r.tables.AccessEntries)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, string(obj.Type), obj.ID)
	if err != nil {
		return nil, fmt.Errorf("list access: %w", err)
	}
	defer rows.Close()

	entries := []models.AccessEntry{}
	for rows.Next() {
		var e models.AccessEntry
		var createdAt string
		if err := rows.Scan(&e.UserID, &e.ObjectType, &e.ObjectID, &e.Permission, &createdAt); err != nil {
			return nil, fmt.Errorf("scan access entry: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access entries: %w", err)
	}
	return entries, nil
}

// ListObjectIDs lists the objects of a type a user holds permission on
func (r *SQLiteAccessRepository) ListObjectIDs(ctx context.Context, userID string, objectType models.ObjectType, permission models.Permission) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT object_id FROM %s
		WHERE user_id = ? AND object_type = ? AND permission = ?
	`, r.tables.AccessEntries)

	ids, err := queryIDs(ctx, GetExecutor(ctx, r.db), query, userID, string(objectType), string(permission))
	if err != nil {
		return nil, fmt.Errorf("list accessible objects: %w", err)
	}
	return ids, nil
}

// DeleteForObjects removes every access entry attached to the given objects
func (r *SQLiteAccessRepository) DeleteForObjects(ctx context.Context, objectType models.ObjectType, objectIDs []string) error {
	if len(objectIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE object_type = ? AND object_id IN (%s)`,
		r.tables.AccessEntries, inClause(len(objectIDs)))

	args := append([]any{string(objectType)}, toArgs(objectIDs)...)
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete access entries: %w", err)
	}
	return nil
}

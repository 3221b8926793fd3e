package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

const cabinetColumns = "id, parent_id, label, created_at, updated_at"

// SQLiteCabinetRepository implements the CabinetRepository interface
type SQLiteCabinetRepository struct {
	db     *sql.DB
	tables *database.TableNames
	logger *slog.Logger
}

// NewCabinetRepository creates a new cabinet repository
func NewCabinetRepository(config *RepositoryConfig) repositories.CabinetRepository {
	return &SQLiteCabinetRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new cabinet
func (r *SQLiteCabinetRepository) Create(ctx context.Context, cabinet *models.Cabinet) error {
	if cabinet.ID == "" {
		cabinet.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC()
	if cabinet.CreatedAt.IsZero() {
		cabinet.CreatedAt = now
	}
	cabinet.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (id, parent_id, label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.tables.Cabinets)

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		cabinet.ID,
		cabinet.ParentID,
		cabinet.Label,
		formatTime(cabinet.CreatedAt),
		formatTime(cabinet.UpdatedAt),
	)
	if err != nil {
		if isUniqueError(err) {
			return &domain.DuplicateLabelError{Label: cabinet.Label, ParentID: cabinet.ParentID}
		}
		if isForeignKeyError(err) {
			return domain.NewNotFound("cabinet", derefOr(cabinet.ParentID, ""))
		}
		return fmt.Errorf("create cabinet: %w", err)
	}
	return nil
}

// GetByID retrieves a cabinet by ID
func (r *SQLiteCabinetRepository) GetByID(ctx context.Context, id string) (*models.Cabinet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, cabinetColumns, r.tables.Cabinets)

	cabinet, err := scanCabinet(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("cabinet", id)
		}
		return nil, fmt.Errorf("get cabinet: %w", err)
	}
	return cabinet, nil
}

// GetByLabel finds a sibling by label; nil, nil when absent
func (r *SQLiteCabinetRepository) GetByLabel(ctx context.Context, parentID *string, label string) (*models.Cabinet, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL AND label = ?`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, label)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = ? AND label = ?`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, *parentID, label)
	}

	cabinet, err := scanCabinet(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get cabinet by label: %w", err)
	}
	return cabinet, nil
}

// Update persists label and parent changes
func (r *SQLiteCabinetRepository) Update(ctx context.Context, cabinet *models.Cabinet) error {
	cabinet.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = ?, label = ?, updated_at = ?
		WHERE id = ?
	`, r.tables.Cabinets)

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		cabinet.ParentID,
		cabinet.Label,
		formatTime(cabinet.UpdatedAt),
		cabinet.ID,
	)
	if err != nil {
		if isUniqueError(err) {
			return &domain.DuplicateLabelError{Label: cabinet.Label, ParentID: cabinet.ParentID}
		}
		if isForeignKeyError(err) {
			return domain.NewNotFound("cabinet", derefOr(cabinet.ParentID, ""))
		}
		return fmt.Errorf("update cabinet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cabinet: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFound("cabinet", cabinet.ID)
	}
	return nil
}

// DeleteSubtree deletes a cabinet, every descendant and their memberships
func (r *SQLiteCabinetRepository) DeleteSubtree(ctx context.Context, id string) ([]string, error) {
	exec := GetExecutor(ctx, r.db)

	query := fmt.Sprintf(`
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM %[1]s WHERE id = ?
			UNION ALL
			SELECT c.id FROM %[1]s c JOIN subtree s ON c.parent_id = s.id
		)
		SELECT id FROM subtree
	`, r.tables.Cabinets)

	ids, err := queryIDs(ctx, exec, query, id)
	if err != nil {
		return nil, fmt.Errorf("collect cabinet subtree: %w", err)
	}
	if len(ids) == 0 {
		return nil, domain.NewNotFound("cabinet", id)
	}

	in := inClause(len(ids))
	memberships := fmt.Sprintf(`DELETE FROM %s WHERE cabinet_id IN (%s)`, r.tables.DocumentCabinets, in)
	if _, err := exec.ExecContext(ctx, memberships, toArgs(ids)...); err != nil {
		return nil, fmt.Errorf("delete cabinet memberships: %w", err)
	}

	cabinets := fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, r.tables.Cabinets, in)
	if _, err := exec.ExecContext(ctx, cabinets, toArgs(ids)...); err != nil {
		return nil, fmt.Errorf("delete cabinet subtree: %w", err)
	}

	return ids, nil
}

// ListChildren lists immediate children ordered by label
func (r *SQLiteCabinetRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Cabinet, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL ORDER BY label ASC`,
			cabinetColumns, r.tables.Cabinets)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = ? ORDER BY label ASC`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, *parentID)
	}

	return r.queryCabinets(ctx, query, args...)
}

// ListAll retrieves every cabinet (flat list)
func (r *SQLiteCabinetRepository) ListAll(ctx context.Context) ([]models.Cabinet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC, id ASC`, cabinetColumns, r.tables.Cabinets)
	return r.queryCabinets(ctx, query)
}

// GetPath computes the display path using a recursive CTE
func (r *SQLiteCabinetRepository) GetPath(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE cabinet_path(id, parent_id, path) AS (
			SELECT id, parent_id, label
			FROM %[1]s
			WHERE id = ?
			UNION ALL
			SELECT c.id, c.parent_id, c.label || ? || cp.path
			FROM %[1]s c
			JOIN cabinet_path cp ON c.id = cp.parent_id
		)
		SELECT path FROM cabinet_path WHERE parent_id IS NULL
	`, r.tables.Cabinets)

	var path string
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id, models.PathSeparator).Scan(&path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NewNotFound("cabinet", id)
		}
		return "", fmt.Errorf("get cabinet path: %w", err)
	}
	return path, nil
}

// ListByDocument lists the cabinets containing a document
func (r *SQLiteCabinetRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Cabinet, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.parent_id, c.label, c.created_at, c.updated_at
		FROM %s c
		JOIN %s dc ON dc.cabinet_id = c.id
		WHERE dc.document_id = ?
		ORDER BY c.label ASC
	`, r.tables.Cabinets, r.tables.DocumentCabinets)

	return r.queryCabinets(ctx, query, documentID)
}

func (r *SQLiteCabinetRepository) queryCabinets(ctx context.Context, query string, args ...any) ([]models.Cabinet, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cabinets: %w", err)
	}
	defer rows.Close()

	cabinets := []models.Cabinet{}
	for rows.Next() {
		cabinet, err := scanCabinet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cabinet: %w", err)
		}
		cabinets = append(cabinets, *cabinet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cabinets: %w", err)
	}
	return cabinets, nil
}

func scanCabinet(row scanner) (*models.Cabinet, error) {
	var cabinet models.Cabinet
	var parentID sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&cabinet.ID, &parentID, &cabinet.Label, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		cabinet.ParentID = &parentID.String
	}

	var err error
	if cabinet.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if cabinet.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &cabinet, nil
}

func queryIDs(ctx context.Context, exec DBTX, query string, args ...any) ([]string, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

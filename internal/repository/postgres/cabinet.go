package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

const cabinetColumns = "id, parent_id, label, created_at, updated_at"

// PostgresCabinetRepository implements the CabinetRepository interface
type PostgresCabinetRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
	logger *slog.Logger
}

// NewCabinetRepository creates a new cabinet repository
func NewCabinetRepository(config *RepositoryConfig) repositories.CabinetRepository {
	return &PostgresCabinetRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new cabinet
func (r *PostgresCabinetRepository) Create(ctx context.Context, cabinet *models.Cabinet) error {
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
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Cabinets)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		cabinet.ID,
		cabinet.ParentID,
		cabinet.Label,
		cabinet.CreatedAt,
		cabinet.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.DuplicateLabelError{Label: cabinet.Label, ParentID: cabinet.ParentID}
		}
		if isPgForeignKeyError(err) {
			return domain.NewNotFound("cabinet", derefOr(cabinet.ParentID, ""))
		}
		return fmt.Errorf("create cabinet: %w", err)
	}

	return nil
}

// GetByID retrieves a cabinet by ID
func (r *PostgresCabinetRepository) GetByID(ctx context.Context, id string) (*models.Cabinet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, cabinetColumns, r.tables.Cabinets)

	cabinet, err := scanCabinet(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("cabinet", id)
		}
		return nil, fmt.Errorf("get cabinet: %w", err)
	}
	return cabinet, nil
}

// GetByLabel finds a sibling by label; nil, nil when absent
func (r *PostgresCabinetRepository) GetByLabel(ctx context.Context, parentID *string, label string) (*models.Cabinet, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL AND label = $1`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, label)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 AND label = $2`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, *parentID, label)
	}

	cabinet, err := scanCabinet(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get cabinet by label: %w", err)
	}
	return cabinet, nil
}

// Update persists label and parent changes
func (r *PostgresCabinetRepository) Update(ctx context.Context, cabinet *models.Cabinet) error {
	cabinet.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, label = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Cabinets)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		cabinet.ParentID,
		cabinet.Label,
		cabinet.UpdatedAt,
		cabinet.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.DuplicateLabelError{Label: cabinet.Label, ParentID: cabinet.ParentID}
		}
		if isPgForeignKeyError(err) {
			return domain.NewNotFound("cabinet", derefOr(cabinet.ParentID, ""))
		}
		return fmt.Errorf("update cabinet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("cabinet", cabinet.ID)
	}
	return nil
}

// DeleteSubtree deletes a cabinet and every descendant. Memberships go with
// them through ON DELETE CASCADE.
func (r *PostgresCabinetRepository) DeleteSubtree(ctx context.Context, id string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %[1]s WHERE id = $1
			UNION ALL
			SELECT c.id FROM %[1]s c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM %[1]s WHERE id IN (SELECT id FROM subtree)
		RETURNING id
	`, r.tables.Cabinets)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("delete cabinet subtree: %w", err)
	}
	defer rows.Close()

	var deleted []string
	for rows.Next() {
		var deletedID string
		if err := rows.Scan(&deletedID); err != nil {
			return nil, fmt.Errorf("scan deleted cabinet: %w", err)
		}
		deleted = append(deleted, deletedID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete cabinet subtree: %w", err)
	}

	if len(deleted) == 0 {
		return nil, domain.NewNotFound("cabinet", id)
	}
	return deleted, nil
}

// ListChildren lists immediate children ordered by label
func (r *PostgresCabinetRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Cabinet, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL ORDER BY label ASC`,
			cabinetColumns, r.tables.Cabinets)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 ORDER BY label ASC`,
			cabinetColumns, r.tables.Cabinets)
		args = append(args, *parentID)
	}

	return r.queryCabinets(ctx, query, args...)
}

// ListAll retrieves every cabinet (flat list)
func (r *PostgresCabinetRepository) ListAll(ctx context.Context) ([]models.Cabinet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC, id ASC`, cabinetColumns, r.tables.Cabinets)
	return r.queryCabinets(ctx, query)
}

// GetPath computes the display path using a recursive CTE
func (r *PostgresCabinetRepository) GetPath(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE cabinet_path AS (
			SELECT id, parent_id, label::text AS path
			FROM %[1]s
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id, c.label || $2 || cp.path
			FROM %[1]s c
			JOIN cabinet_path cp ON c.id = cp.parent_id
		)
		SELECT path FROM cabinet_path WHERE parent_id IS NULL
	`, r.tables.Cabinets)

	var path string
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, models.PathSeparator).Scan(&path)
	if err != nil {
		if isPgNoRowsError(err) {
			return "", domain.NewNotFound("cabinet", id)
		}
		return "", fmt.Errorf("get cabinet path: %w", err)
	}
	return path, nil
}

// ListByDocument lists the cabinets containing a document
func (r *PostgresCabinetRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Cabinet, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.parent_id, c.label, c.created_at, c.updated_at
		FROM %s c
		JOIN %s dc ON dc.cabinet_id = c.id
		WHERE dc.document_id = $1
		ORDER BY c.label ASC
	`, r.tables.Cabinets, r.tables.DocumentCabinets)

	return r.queryCabinets(ctx, query, documentID)
}

func (r *PostgresCabinetRepository) queryCabinets(ctx context.Context, query string, args ...any) ([]models.Cabinet, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
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
	err := row.Scan(
		&cabinet.ID,
		&cabinet.ParentID,
		&cabinet.Label,
		&cabinet.CreatedAt,
		&cabinet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cabinet, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

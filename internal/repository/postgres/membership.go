package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// PostgresMembershipRepository implements the DocumentCabinetRepository interface
type PostgresMembershipRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) repositories.DocumentCabinetRepository {
	return &PostgresMembershipRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Add inserts memberships in the given order, skipping existing ones
func (r *PostgresMembershipRepository) Add(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (cabinet_id, document_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cabinet_id, document_id) DO NOTHING
	`, r.tables.DocumentCabinets)

	exec := GetExecutor(ctx, r.pool)
	now := time.Now().UTC()
	added := []string{}
	for _, documentID := range documentIDs {
		result, err := exec.Exec(ctx, query, cabinetID, documentID, now)
		if err != nil {
			if isPgForeignKeyError(err) {
				return nil, fmt.Errorf("add document %s to cabinet %s: %w", documentID, cabinetID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("add document to cabinet: %w", err)
		}
		if result.RowsAffected() > 0 {
			added = append(added, documentID)
		}
	}
	return added, nil
}

// Remove deletes memberships, ignoring documents that are not filed
func (r *PostgresMembershipRepository) Remove(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE cabinet_id = $1 AND document_id = ANY($2)
		RETURNING document_id
	`, r.tables.DocumentCabinets)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, cabinetID, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("remove documents from cabinet: %w", err)
	}
	defer rows.Close()

	removed := []string{}
	for rows.Next() {
		var documentID string
		if err := rows.Scan(&documentID); err != nil {
			return nil, fmt.Errorf("scan removed document: %w", err)
		}
		removed = append(removed, documentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("remove documents from cabinet: %w", err)
	}
	return removed, nil
}

// ListDocuments lists a cabinet's documents in insertion order
func (r *PostgresMembershipRepository) ListDocuments(ctx context.Context, cabinetID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.label, d.created_at
		FROM %s d
		JOIN %s dc ON dc.document_id = d.id
		WHERE dc.cabinet_id = $1
		ORDER BY dc.id ASC
	`, r.tables.Documents, r.tables.DocumentCabinets)

	return queryDocuments(ctx, GetExecutor(ctx, r.pool), query, cabinetID)
}

// Count returns the number of documents in a cabinet
func (r *PostgresMembershipRepository) Count(ctx context.Context, cabinetID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE cabinet_id = $1`, r.tables.DocumentCabinets)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, cabinetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cabinet documents: %w", err)
	}
	return count, nil
}

// CountAll returns document counts keyed by cabinet ID
func (r *PostgresMembershipRepository) CountAll(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT cabinet_id, COUNT(*) FROM %s GROUP BY cabinet_id
	`, r.tables.DocumentCabinets)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count cabinet documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var cabinetID string
		var count int
		if err := rows.Scan(&cabinetID, &count); err != nil {
			return nil, fmt.Errorf("scan document count: %w", err)
		}
		counts[cabinetID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document counts: %w", err)
	}
	return counts, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// SQLiteMembershipRepository implements the DocumentCabinetRepository interface
type SQLiteMembershipRepository struct {
	db     *sql.DB
	tables *database.TableNames
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) repositories.DocumentCabinetRepository {
	return &SQLiteMembershipRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Add inserts memberships in the given order, skipping existing ones
func (r *SQLiteMembershipRepository) Add(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (cabinet_id, document_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (cabinet_id, document_id) DO NOTHING
	`, r.tables.DocumentCabinets)

	exec := GetExecutor(ctx, r.db)
	now := formatTime(time.Now())
	added := []string{}
	for _, documentID := range documentIDs {
		result, err := exec.ExecContext(ctx, query, cabinetID, documentID, now)
		if err != nil {
			if isForeignKeyError(err) {
				return nil, fmt.Errorf("add document %s to cabinet %s: %w", documentID, cabinetID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("add document to cabinet: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("add document to cabinet: %w", err)
		}
		if affected > 0 {
			added = append(added, documentID)
		}
	}
	return added, nil
}

// Remove deletes memberships, ignoring documents that are not filed
func (r *SQLiteMembershipRepository) Remove(ctx context.Context, cabinetID string, documentIDs []string) ([]string, error) {
	if len(documentIDs) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE cabinet_id = ? AND document_id IN (%s)
		RETURNING document_id
	`, r.tables.DocumentCabinets, inClause(len(documentIDs)))

	args := append([]any{cabinetID}, toArgs(documentIDs)...)
	removed, err := queryIDs(ctx, GetExecutor(ctx, r.db), query, args...)
	if err != nil {
		return nil, fmt.Errorf("remove documents from cabinet: %w", err)
	}
	return removed, nil
}

// ListDocuments lists a cabinet's documents in insertion order
func (r *SQLiteMembershipRepository) ListDocuments(ctx context.Context, cabinetID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.label, d.created_at
		FROM %s d
		JOIN %s dc ON dc.document_id = d.id
		WHERE dc.cabinet_id = ?
		ORDER BY dc.id ASC
	`, r.tables.Documents, r.tables.DocumentCabinets)

	return queryDocuments(ctx, GetExecutor(ctx, r.db), query, cabinetID)
}

// Count returns the number of documents in a cabinet
func (r *SQLiteMembershipRepository) Count(ctx context.Context, cabinetID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE cabinet_id = ?`, r.tables.DocumentCabinets)

	var count int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, cabinetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cabinet documents: %w", err)
	}
	return count, nil
}

// CountAll returns document counts keyed by cabinet ID
func (r *SQLiteMembershipRepository) CountAll(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT cabinet_id, COUNT(*) FROM %s GROUP BY cabinet_id`, r.tables.DocumentCabinets)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
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

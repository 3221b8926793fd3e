package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create registers a document reference
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, label, created_at)
		VALUES ($1, $2, $3)
	`, r.tables.Documents)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, doc.ID, doc.Label, doc.CreatedAt); err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT id, label, created_at FROM %s WHERE id = $1`, r.tables.Documents)

	var doc models.Document
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Label, &doc.CreatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("document", id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// SearchByCabinetLabel finds documents filed in a cabinet whose label contains query
func (r *PostgresDocumentRepository) SearchByCabinetLabel(ctx context.Context, query string) ([]models.Document, error) {
	sql := fmt.Sprintf(`
		SELECT DISTINCT d.id, d.label, d.created_at
		FROM %s d
		JOIN %s dc ON dc.document_id = d.id
		JOIN %s c ON c.id = dc.cabinet_id
		WHERE c.label ILIKE '%%' || $1 || '%%'
		ORDER BY d.label ASC, d.id ASC
	`, r.tables.Documents, r.tables.DocumentCabinets, r.tables.Cabinets)

	return queryDocuments(ctx, GetExecutor(ctx, r.pool), sql, escapeLike(query))
}

// escapeLike escapes LIKE wildcards so query matches literally
func escapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query)
}

func queryDocuments(ctx context.Context, exec DBTX, query string, args ...any) ([]models.Document, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Label, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

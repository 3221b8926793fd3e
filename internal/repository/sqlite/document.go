package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// SQLiteDocumentRepository implements the DocumentRepository interface
type SQLiteDocumentRepository struct {
	db     *sql.DB
	tables *database.TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &SQLiteDocumentRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Create registers a document reference
func (r *SQLiteDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, label, created_at) VALUES (?, ?, ?)`, r.tables.Documents)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, doc.ID, doc.Label, formatTime(doc.CreatedAt)); err != nil {
		if isUniqueError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *SQLiteDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT id, label, created_at FROM %s WHERE id = ?`, r.tables.Documents)

	doc, err := scanDocument(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("document", id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// SearchByCabinetLabel finds documents filed in a cabinet whose label contains query.
// SQLite's LIKE is case-insensitive for ASCII.
func (r *SQLiteDocumentRepository) SearchByCabinetLabel(ctx context.Context, query string) ([]models.Document, error) {
	stmt := fmt.Sprintf(`
		SELECT DISTINCT d.id, d.label, d.created_at
		FROM %s d
		JOIN %s dc ON dc.document_id = d.id
		JOIN %s c ON c.id = dc.cabinet_id
		WHERE c.label LIKE '%%' || ? || '%%' ESCAPE '\'
		ORDER BY d.label ASC, d.id ASC
	`, r.tables.Documents, r.tables.DocumentCabinets, r.tables.Cabinets)

	return queryDocuments(ctx, GetExecutor(ctx, r.db), stmt, escapeLike(query))
}

// escapeLike escapes LIKE wildcards so query matches literally
func escapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query)
}

func scanDocument(row scanner) (*models.Document, error) {
	var doc models.Document
	var createdAt string
	if err := row.Scan(&doc.ID, &doc.Label, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	doc.CreatedAt = t
	return &doc, nil
}

func queryDocuments(ctx context.Context, exec DBTX, query string, args ...any) ([]models.Document, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

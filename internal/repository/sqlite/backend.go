package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cabinets/internal/database"
	"cabinets/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *sql.DB
	Tables *database.TableNames
	Logger *slog.Logger
}

// Open opens (creating if needed) the database file at path.
// Foreign keys are enforced and the pool is limited to one connection,
// which serializes writers.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// NewStore opens the database file, creates the schema and wires every repository
func NewStore(ctx context.Context, path string, tables *database.TableNames, logger *slog.Logger) (*repositories.Store, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, tables); err != nil {
		db.Close()
		return nil, err
	}

	cfg := &RepositoryConfig{
		DB:     db,
		Tables: tables,
		Logger: logger,
	}

	return &repositories.Store{
		Cabinets:    NewCabinetRepository(cfg),
		Memberships: NewMembershipRepository(cfg),
		Documents:   NewDocumentRepository(cfg),
		Access:      NewAccessRepository(cfg),
		Events:      NewEventRepository(cfg),
		Tx:          NewTransactionManager(cfg),
		Migrate: func(ctx context.Context) error {
			return Migrate(ctx, db, tables)
		},
		Reset: func(ctx context.Context) error {
			return DropAll(ctx, db, tables)
		},
		Close: func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close sqlite database", "error", err)
			}
		},
	}, nil
}

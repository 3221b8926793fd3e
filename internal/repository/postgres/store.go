package postgres

import (
	"context"
	"log/slog"

	"cabinets/internal/database"
	"cabinets/internal/domain/repositories"
)

// NewStore connects to PostgreSQL and wires every repository onto one pool
func NewStore(ctx context.Context, databaseURL string, tables *database.TableNames, logger *slog.Logger) (*repositories.Store, error) {
	pool, err := CreateConnectionPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	cfg := &RepositoryConfig{
		Pool:   pool,
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
			return Migrate(ctx, pool, tables)
		},
		Reset: func(ctx context.Context) error {
			return DropAll(ctx, pool, tables)
		},
		Close: pool.Close,
	}, nil
}

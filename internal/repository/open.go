// Package repository selects and opens the configured storage backend.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"cabinets/internal/config"
	"cabinets/internal/database"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/repository/postgres"
	"cabinets/internal/repository/sqlite"
)

// Open connects to the backend named by cfg.DatabaseDriver.
// The sqlite backend creates its schema on open; postgres needs Store.Migrate.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, error) {
	tables := database.NewTableNames(cfg.TablePrefix)

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		logger.Info("opening postgres store", "table_prefix", cfg.TablePrefix)
		return postgres.NewStore(ctx, cfg.DatabaseURL, tables, logger)
	case config.DriverSQLite:
		logger.Info("opening sqlite store", "path", cfg.SQLitePath, "table_prefix", cfg.TablePrefix)
		return sqlite.NewStore(ctx, cfg.SQLitePath, tables, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/config"
	"cabinets/internal/domain/models"
)

func TestOpenSQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "nested", "cabinets.db"),
		TablePrefix:    "test_",
	}

	store, err := Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Cabinets.Create(context.Background(), &models.Cabinet{Label: "Invoices"}))
}

func TestOpenUnknownDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Open(context.Background(), &config.Config{DatabaseDriver: "mysql"}, logger)
	assert.Error(t, err)
}

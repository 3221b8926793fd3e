package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
	"cabinets/internal/domain/services"
	"cabinets/internal/events"
	"cabinets/internal/registry"
	"cabinets/internal/repository/sqlite"
)

const (
	admin = "admin"
	alice = "alice"
	bob   = "bob"
)

type fixture struct {
	ctx       context.Context
	store     *repositories.Store
	registry  *registry.Registry
	publisher *events.MemoryPublisher
	logs      *bytes.Buffer
	svc       *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := sqlite.NewStore(ctx, filepath.Join(t.TempDir(), "cabinets.db"), database.NewTableNames("test_"), logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	reg, err := registry.NewRegistry()
	require.NoError(t, err)

	publisher := &events.MemoryPublisher{}
	f := &fixture{
		ctx:       ctx,
		store:     store,
		registry:  reg,
		publisher: publisher,
		logs:      logs,
		svc:       SetupServices(store, reg, publisher, logger),
	}

	for _, ns := range reg.Permissions() {
		for _, p := range ns.Permissions {
			f.grant(t, admin, models.Permission(ns.Namespace+"."+p.Name))
		}
	}
	return f
}

func (f *fixture) grant(t *testing.T, userID string, permission models.Permission) {
	t.Helper()
	require.NoError(t, f.store.Access.GrantPermission(f.ctx, userID, permission))
}

func (f *fixture) grantOn(t *testing.T, userID string, obj models.ObjectRef, permission models.Permission) {
	t.Helper()
	require.NoError(t, f.store.Access.GrantAccess(f.ctx, &models.AccessEntry{
		UserID:     userID,
		ObjectType: obj.Type,
		ObjectID:   obj.ID,
		Permission: permission,
	}))
}

func (f *fixture) cabinet(t *testing.T, label string, parent *models.Cabinet) *models.Cabinet {
	t.Helper()

	req := &services.CreateCabinetRequest{UserID: admin, Label: label}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	cabinet, err := f.svc.Cabinets.CreateCabinet(f.ctx, req)
	require.NoError(t, err)
	return cabinet
}

func (f *fixture) document(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Documents.Create(f.ctx, &models.Document{ID: id, Label: "document " + id}))
}

func (f *fixture) documentIDs(t *testing.T, cabinetID string) []string {
	t.Helper()

	docs, err := f.store.Memberships.ListDocuments(f.ctx, cabinetID)
	require.NoError(t, err)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
}

func labels(cabinets []models.Cabinet) []string {
	out := make([]string, len(cabinets))
	for i, c := range cabinets {
		out[i] = c.Label
	}
	return out
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

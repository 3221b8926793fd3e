package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/database"
	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/repositories"
)

// newTestStore opens DATABASE_URL with tables under a fresh prefix and drops
// them afterwards. Skipped without a database.
func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	prefix := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "_"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := NewStore(ctx, url, database.NewTableNames(prefix), logger)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() {
		assert.NoError(t, store.Reset(context.Background()))
		store.Close()
	})
	return store
}

func createCabinet(t *testing.T, store *repositories.Store, label string, parentID *string) *models.Cabinet {
	t.Helper()

	cabinet := &models.Cabinet{Label: label, ParentID: parentID}
	require.NoError(t, store.Cabinets.Create(context.Background(), cabinet))
	return cabinet
}

func createDocument(t *testing.T, store *repositories.Store, id, label string) {
	t.Helper()
	require.NoError(t, store.Documents.Create(context.Background(), &models.Document{ID: id, Label: label}))
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSiblingLabelUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	finance := createCabinet(t, store, "Finance", nil)
	legal := createCabinet(t, store, "Legal", nil)
	createCabinet(t, store, "Invoices", &finance.ID)
	createCabinet(t, store, "Invoices", &legal.ID)

	tests := []struct {
		name     string
		parentID *string
	}{
		{"root", nil},
		{"child", &finance.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := "Finance"
			if tt.parentID != nil {
				label = "Invoices"
			}
			err := store.Cabinets.Create(ctx, &models.Cabinet{Label: label, ParentID: tt.parentID})

			var dup *domain.DuplicateLabelError
			require.True(t, errors.As(err, &dup), "got %v", err)
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}

	missing := "missing"
	err := store.Cabinets.Create(ctx, &models.Cabinet{Label: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	legal.Label = "Finance"
	assert.ErrorIs(t, store.Cabinets.Update(ctx, legal), domain.ErrConflict)

	found, err := store.Cabinets.GetByLabel(ctx, &finance.ID, "Invoices")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Invoices", found.Label)

	found, err = store.Cabinets.GetByLabel(ctx, nil, "Nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createCabinet(t, store, "A", nil)
	b := createCabinet(t, store, "B", &a.ID)
	c := createCabinet(t, store, "C", &b.ID)

	tests := []struct {
		id   string
		want string
	}{
		{a.ID, "A"},
		{b.ID, "A / B"},
		{c.ID, "A / B / C"},
	}
	for _, tt := range tests {
		path, err := store.Cabinets.GetPath(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, path)
	}

	_, err := store.Cabinets.GetPath(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSubtreeKeepsDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := createCabinet(t, store, "Root", nil)
	child := createCabinet(t, store, "Child", &root.ID)
	grandchild := createCabinet(t, store, "Grandchild", &child.ID)
	other := createCabinet(t, store, "Other", nil)
	createDocument(t, store, "doc-1", "Report")

	for _, id := range []string{grandchild.ID, other.ID} {
		_, err := store.Memberships.Add(ctx, id, []string{"doc-1"})
		require.NoError(t, err)
	}

	deleted, err := store.Cabinets.DeleteSubtree(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID, grandchild.ID}, deleted)

	_, err = store.Cabinets.GetByID(ctx, grandchild.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cabinets, err := store.Cabinets.ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, cabinets, 1)
	assert.Equal(t, other.ID, cabinets[0].ID)

	_, err = store.Documents.GetByID(ctx, "doc-1")
	require.NoError(t, err)

	_, err = store.Cabinets.DeleteSubtree(ctx, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMembershipAddRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	invoices := createCabinet(t, store, "Invoices", nil)
	for _, id := range []string{"doc-1", "doc-2", "doc-3"} {
		createDocument(t, store, id, "label "+id)
	}

	added, err := store.Memberships.Add(ctx, invoices.ID, []string{"doc-3", "doc-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-3", "doc-1"}, added)

	added, err = store.Memberships.Add(ctx, invoices.ID, []string{"doc-1", "doc-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-2"}, added)

	_, err = store.Memberships.Add(ctx, invoices.ID, []string{"ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := store.Memberships.ListDocuments(ctx, invoices.ID)
	require.NoError(t, err)
	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"doc-3", "doc-1", "doc-2"}, ids)

	removed, err := store.Memberships.Remove(ctx, invoices.ID, []string{"doc-1", "ghost", "doc-2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-1", "doc-2"}, removed)

	removed, err = store.Memberships.Remove(ctx, invoices.ID, []string{"doc-1"})
	require.NoError(t, err)
	assert.Empty(t, removed)

	count, err := store.Memberships.Count(ctx, invoices.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	counts, err := store.Memberships.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{invoices.ID: 1}, counts)
}

func TestSearchByCabinetLabel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tax := createCabinet(t, store, "Tax 100%", nil)
	taxes := createCabinet(t, store, "Taxes", nil)
	createDocument(t, store, "doc-1", "B")
	createDocument(t, store, "doc-2", "A")
	_, err := store.Memberships.Add(ctx, tax.ID, []string{"doc-1", "doc-2"})
	require.NoError(t, err)
	_, err = store.Memberships.Add(ctx, taxes.ID, []string{"doc-2"})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"tax", []string{"doc-2", "doc-1"}},
		{"100%", []string{"doc-2", "doc-1"}},
		{"%", []string{"doc-2", "doc-1"}},
		{"xes", []string{"doc-2"}},
		{"_", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			docs, err := store.Documents.SearchByCabinetLabel(ctx, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAccessEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &models.AccessEntry{
		UserID:     "alice",
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   "cab-1",
		Permission: models.PermissionCabinetView,
	}
	require.NoError(t, store.Access.GrantAccess(ctx, entry))
	require.NoError(t, store.Access.GrantAccess(ctx, entry))

	ok, err := store.Access.HasAccess(ctx, "alice", models.ObjectTypeCabinet, []string{"cab-9", "cab-1"}, models.PermissionCabinetView)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Access.HasAccess(ctx, "alice", models.ObjectTypeCabinet, []string{"cab-1"}, models.PermissionCabinetEdit)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := store.Access.ListObjectIDs(ctx, "alice", models.ObjectTypeCabinet, models.PermissionCabinetView)
	require.NoError(t, err)
	assert.Equal(t, []string{"cab-1"}, ids)

	require.NoError(t, store.Access.DeleteForObjects(ctx, models.ObjectTypeCabinet, []string{"cab-1"}))
	entries, err := store.Access.ListAccess(ctx, models.CabinetRef("cab-1"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Access.GrantPermission(ctx, "bob", models.PermissionCabinetCreate))
	ok, err = store.Access.HasPermission(ctx, "bob", models.PermissionCabinetCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Access.RevokePermission(ctx, "bob", models.PermissionCabinetCreate))
	ok, err = store.Access.HasPermission(ctx, "bob", models.PermissionCabinetCreate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, name := range []string{"cabinet_created", "cabinet_edited", "cabinet_deleted"} {
		require.NoError(t, store.Events.Create(ctx, &models.Event{
			Namespace:  "cabinets",
			Name:       name,
			ActorID:    "alice",
			TargetType: models.ObjectTypeCabinet,
			TargetID:   "cab-1",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	events, err := store.Events.ListByTarget(ctx, models.CabinetRef("cab-1"), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "cabinet_deleted", events[0].Name)
	assert.Equal(t, "cabinet_edited", events[1].Name)
}

func TestExecTxRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Tx.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, store.Cabinets.Create(ctx, &models.Cabinet{Label: "Temp"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	roots, err := store.Cabinets.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

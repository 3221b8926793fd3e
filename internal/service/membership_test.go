package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

func TestAddDocumentsRequiresAccessOnBothSides(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	f.document(t, "doc-1")

	req := &services.MembershipRequest{
		UserID:        alice,
		DocumentIDs:   []string{"doc-1"},
		CabinetIDs:    []string{invoices.ID},
		DocumentField: "document",
	}

	err := f.svc.Memberships.AddDocuments(f.ctx, req)
	assertFieldError(t, err, "document")
	assert.Contains(t, err.Error(), "Select a valid choice")

	f.grantOn(t, alice, models.DocumentRef("doc-1"), models.PermissionCabinetAddDocument)
	err = f.svc.Memberships.AddDocuments(f.ctx, req)
	assertFieldError(t, err, "cabinets")
	assert.Empty(t, f.documentIDs(t, invoices.ID))

	f.grantOn(t, alice, models.CabinetRef(invoices.ID), models.PermissionCabinetAddDocument)
	require.NoError(t, f.svc.Memberships.AddDocuments(f.ctx, req))
	assert.Equal(t, []string{"doc-1"}, f.documentIDs(t, invoices.ID))
}

func TestAddDocumentsValidation(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	f.document(t, "doc-1")

	tests := []struct {
		name  string
		req   services.MembershipRequest
		field string
	}{
		{
			name:  "no documents",
			req:   services.MembershipRequest{CabinetIDs: []string{invoices.ID}},
			field: "id_list",
		},
		{
			name:  "no cabinets",
			req:   services.MembershipRequest{DocumentIDs: []string{"doc-1"}, CabinetIDs: []string{" "}},
			field: "cabinets",
		},
		{
			name:  "unknown selected document",
			req:   services.MembershipRequest{DocumentIDs: []string{"missing"}, CabinetIDs: []string{invoices.ID}, Selection: true},
			field: "id_list",
		},
		{
			name:  "unknown cabinet",
			req:   services.MembershipRequest{DocumentIDs: []string{"doc-1"}, CabinetIDs: []string{"missing"}},
			field: "cabinets",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.UserID = admin
			assertFieldError(t, f.svc.Memberships.AddDocuments(f.ctx, &req), tt.field)
		})
	}

	err := f.svc.Memberships.AddDocuments(f.ctx, &services.MembershipRequest{
		UserID:      admin,
		DocumentIDs: []string{"missing"},
		CabinetIDs:  []string{invoices.ID},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddDocumentsIsIdempotentAndOrdered(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	for _, id := range []string{"doc-3", "doc-1", "doc-2"} {
		f.document(t, id)
	}

	add := func(ids ...string) {
		require.NoError(t, f.svc.Memberships.AddDocuments(f.ctx, &services.MembershipRequest{
			UserID:      admin,
			DocumentIDs: ids,
			CabinetIDs:  []string{invoices.ID},
		}))
	}

	add("doc-3")
	add("doc-1", "doc-3", "doc-1")
	add("doc-2")
	add("doc-3")

	assert.Equal(t, []string{"doc-3", "doc-1", "doc-2"}, f.documentIDs(t, invoices.ID))

	count, err := f.store.Memberships.Count(f.ctx, invoices.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// One event per membership actually created
	added := 0
	for _, e := range f.publisher.Events() {
		if e.Name == eventDocumentAdded {
			added++
			assert.Equal(t, invoices.ID, e.TargetID)
			require.NotNil(t, e.ActionObjectID)
		}
	}
	assert.Equal(t, 3, added)

	docs, err := f.svc.Cabinets.ListDocuments(f.ctx, admin, invoices.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestRemoveDocuments(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	receipts := f.cabinet(t, "Receipts", nil)
	f.document(t, "doc-1")
	f.document(t, "doc-2")

	require.NoError(t, f.svc.Memberships.AddDocuments(f.ctx, &services.MembershipRequest{
		UserID:      admin,
		DocumentIDs: []string{"doc-1", "doc-2"},
		CabinetIDs:  []string{invoices.ID, receipts.ID},
	}))

	t.Run("without access", func(t *testing.T) {
		err := f.svc.Memberships.RemoveDocuments(f.ctx, &services.MembershipRequest{
			UserID:      alice,
			DocumentIDs: []string{"doc-1"},
			CabinetIDs:  []string{invoices.ID},
		})
		assertFieldError(t, err, "id_list")
		assert.Equal(t, []string{"doc-1", "doc-2"}, f.documentIDs(t, invoices.ID))
	})

	t.Run("with access", func(t *testing.T) {
		f.grantOn(t, alice, models.DocumentRef("doc-1"), models.PermissionCabinetRemoveDocument)
		f.grantOn(t, alice, models.CabinetRef(invoices.ID), models.PermissionCabinetRemoveDocument)

		require.NoError(t, f.svc.Memberships.RemoveDocuments(f.ctx, &services.MembershipRequest{
			UserID:      alice,
			DocumentIDs: []string{"doc-1"},
			CabinetIDs:  []string{invoices.ID},
		}))
		assert.Equal(t, []string{"doc-2"}, f.documentIDs(t, invoices.ID))
		assert.Equal(t, []string{"doc-1", "doc-2"}, f.documentIDs(t, receipts.ID))
	})

	t.Run("absent document is a no-op", func(t *testing.T) {
		before := len(f.publisher.Events())
		require.NoError(t, f.svc.Memberships.RemoveDocuments(f.ctx, &services.MembershipRequest{
			UserID:      alice,
			DocumentIDs: []string{"doc-1"},
			CabinetIDs:  []string{invoices.ID},
		}))
		assert.Equal(t, []string{"doc-2"}, f.documentIDs(t, invoices.ID))
		assert.Len(t, f.publisher.Events(), before)
	})
}

func TestListDocumentCabinets(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	y2024 := f.cabinet(t, "2024", invoices)
	receipts := f.cabinet(t, "Receipts", nil)
	f.document(t, "doc-1")

	require.NoError(t, f.svc.Memberships.AddDocuments(f.ctx, &services.MembershipRequest{
		UserID:      admin,
		DocumentIDs: []string{"doc-1"},
		CabinetIDs:  []string{receipts.ID, y2024.ID},
	}))

	cabinets, err := f.svc.Memberships.ListDocumentCabinets(f.ctx, admin, "doc-1")
	require.NoError(t, err)
	require.Len(t, cabinets, 2)
	paths := []string{cabinets[0].Path, cabinets[1].Path}
	assert.ElementsMatch(t, []string{"Invoices / 2024", "Receipts"}, paths)

	f.grantOn(t, alice, models.CabinetRef(invoices.ID), models.PermissionCabinetView)
	cabinets, err = f.svc.Memberships.ListDocumentCabinets(f.ctx, alice, "doc-1")
	require.NoError(t, err)
	require.Len(t, cabinets, 1)
	assert.Equal(t, y2024.ID, cabinets[0].ID)

	_, err = f.svc.Memberships.ListDocumentCabinets(f.ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchDocuments(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	receipts := f.cabinet(t, "Receipts", nil)
	f.document(t, "doc-1")
	f.document(t, "doc-2")
	f.document(t, "doc-3")

	add := func(cabinetID string, ids ...string) {
		require.NoError(t, f.svc.Memberships.AddDocuments(f.ctx, &services.MembershipRequest{
			UserID:      admin,
			DocumentIDs: ids,
			CabinetIDs:  []string{cabinetID},
		}))
	}
	add(invoices.ID, "doc-1")
	add(receipts.ID, "doc-2")

	docs, err := f.svc.Memberships.SearchDocuments(f.ctx, admin, "voice")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)

	docs, err = f.svc.Memberships.SearchDocuments(f.ctx, alice, "voice")
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = f.svc.Memberships.SearchDocuments(f.ctx, admin, "%")
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = f.svc.Memberships.SearchDocuments(f.ctx, admin, "  ")
	assertFieldError(t, err, "cabinet")
}

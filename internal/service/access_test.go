package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain"
	"cabinets/internal/domain/models"
)

func TestEffectivePermissionScope(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	y2024 := f.cabinet(t, "2024", invoices)
	q1 := f.cabinet(t, "Q1", y2024)

	tests := []struct {
		name string
		obj  models.ObjectRef
		want models.ObjectRef
	}{
		{"root", models.CabinetRef(invoices.ID), models.CabinetRef(invoices.ID)},
		{"child", models.CabinetRef(y2024.ID), models.CabinetRef(invoices.ID)},
		{"grandchild", models.CabinetRef(q1.ID), models.CabinetRef(invoices.ID)},
		{"document", models.DocumentRef("doc-1"), models.DocumentRef("doc-1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Access.EffectivePermissionScope(f.ctx, tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrantAndRevokeAccess(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	obj := models.CabinetRef(invoices.ID)

	entry := &models.AccessEntry{
		UserID:     bob,
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   invoices.ID,
		Permission: models.PermissionCabinetView,
	}

	err := f.svc.Access.GrantAccess(f.ctx, alice, entry)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.grantOn(t, alice, obj, models.PermissionACLEdit)
	require.NoError(t, f.svc.Access.GrantAccess(f.ctx, alice, entry))
	require.NoError(t, f.svc.Access.CheckAccess(f.ctx, bob, obj, models.PermissionCabinetView))

	_, err = f.svc.Access.ListAccess(f.ctx, alice, obj)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	entries, err := f.svc.Access.ListAccess(f.ctx, admin, obj)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, f.svc.Access.RevokeAccess(f.ctx, alice, entry))
	err = f.svc.Access.CheckAccess(f.ctx, bob, obj, models.PermissionCabinetView)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Permissions that do not apply to cabinets are rejected
	err = f.svc.Access.GrantAccess(f.ctx, admin, &models.AccessEntry{
		UserID:     bob,
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   invoices.ID,
		Permission: models.PermissionCabinetCreate,
	})
	assertFieldError(t, err, "permission")

	err = f.svc.Access.GrantAccess(f.ctx, admin, &models.AccessEntry{
		UserID:     bob,
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   "missing",
		Permission: models.PermissionCabinetView,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGrantPermission(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Access.GrantPermission(f.ctx, bob, models.PermissionCabinetCreate))
	require.NoError(t, f.svc.Access.CheckPermission(f.ctx, bob, models.PermissionCabinetCreate))

	assertFieldError(t, f.svc.Access.GrantPermission(f.ctx, bob, "cabinets.cabinet_print"), "permission")
	assertFieldError(t, f.svc.Access.GrantPermission(f.ctx, "", models.PermissionCabinetCreate), "user_id")

	require.NoError(t, f.svc.Access.RevokePermission(f.ctx, bob, models.PermissionCabinetCreate))
	assert.ErrorIs(t, f.svc.Access.CheckPermission(f.ctx, bob, models.PermissionCabinetCreate), domain.ErrForbidden)
}

func TestFilterAllowedKeepsOrder(t *testing.T) {
	f := newFixture(t)
	a := f.cabinet(t, "A", nil)
	b := f.cabinet(t, "B", nil)
	c := f.cabinet(t, "C", a)

	f.grantOn(t, alice, models.CabinetRef(a.ID), models.PermissionCabinetView)

	ids := []string{c.ID, b.ID, a.ID}
	allowed, err := f.svc.Access.FilterAllowed(f.ctx, alice, models.ObjectTypeCabinet, ids, models.PermissionCabinetView)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID}, allowed)

	allowed, err = f.svc.Access.FilterAllowed(f.ctx, admin, models.ObjectTypeCabinet, ids, models.PermissionCabinetView)
	require.NoError(t, err)
	assert.Equal(t, ids, allowed)
}

func TestSystemAuthorizerAllowsEverything(t *testing.T) {
	var authz SystemAuthorizer
	f := newFixture(t)

	assert.NoError(t, authz.CheckPermission(f.ctx, "", models.PermissionCabinetCreate))
	assert.NoError(t, authz.CheckAccess(f.ctx, "", models.CabinetRef("x"), models.PermissionCabinetDelete))

	adminSvc := SetupAdminServices(f.store, f.registry, f.publisher, nopLogger())
	invoices := f.cabinet(t, "Invoices", nil)
	require.NoError(t, adminSvc.Access.GrantAccess(f.ctx, "cli", &models.AccessEntry{
		UserID:     bob,
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   invoices.ID,
		Permission: models.PermissionCabinetView,
	}))
	require.NoError(t, f.svc.Access.CheckAccess(f.ctx, bob, models.CabinetRef(invoices.ID), models.PermissionCabinetView))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

func linkNames(links []services.ResolvedLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Name
	}
	return out
}

func TestResolveMainMenu(t *testing.T) {
	f := newFixture(t)

	links, err := f.svc.Navigation.Resolve(f.ctx, admin, "main", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_list", "cabinet_create"}, linkNames(links))

	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "main", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_list"}, linkNames(links))
}

func TestResolveObjectMenu(t *testing.T) {
	f := newFixture(t)
	invoices := f.cabinet(t, "Invoices", nil)
	child := f.cabinet(t, "2024", invoices)
	obj := models.CabinetRef(child.ID)

	links, err := f.svc.Navigation.Resolve(f.ctx, admin, "object", "cabinet", &obj)
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_delete", "cabinet_edit", "cabinet_child_add"}, linkNames(links))
	assert.Equal(t, "/cabinets/"+child.ID+"/delete", links[0].URL)
	assert.Equal(t, "POST", links[0].Method)

	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "object", "cabinet", &obj)
	require.NoError(t, err)
	assert.Empty(t, links)

	// Edit on the root cabinet applies to the whole tree
	f.grantOn(t, alice, models.CabinetRef(invoices.ID), models.PermissionCabinetEdit)
	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "object", "cabinet", &obj)
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_edit", "cabinet_child_add"}, linkNames(links))
}

func TestResolveDocumentMenus(t *testing.T) {
	f := newFixture(t)
	f.document(t, "doc-1")
	obj := models.DocumentRef("doc-1")

	links, err := f.svc.Navigation.Resolve(f.ctx, alice, "facet", "document", &obj)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "/documents/doc-1/cabinets/", links[0].URL)

	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "secondary", "cabinets:document_cabinet_list", &obj)
	require.NoError(t, err)
	assert.Empty(t, links)

	f.grantOn(t, alice, obj, models.PermissionCabinetAddDocument)
	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "secondary", "cabinets:document_cabinet_list", &obj)
	require.NoError(t, err)
	assert.Equal(t, []string{"document_cabinet_add"}, linkNames(links))

	links, err = f.svc.Navigation.Resolve(f.ctx, alice, "multi_item", "document", nil)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestResolveUnknownMenu(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Navigation.Resolve(f.ctx, admin, "sidebar", "", nil)
	assertFieldError(t, err, "menu")
}

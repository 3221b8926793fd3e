package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain/models"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	def, ok := r.Permission(models.PermissionCabinetCreate)
	require.True(t, ok)
	assert.Equal(t, "Create cabinets", def.Label)

	_, ok = r.Permission("cabinets.cabinet_fly")
	assert.False(t, ok)

	assert.True(t, r.IsModelPermission(models.ObjectTypeDocument, models.PermissionCabinetAddDocument))
	assert.False(t, r.IsModelPermission(models.ObjectTypeDocument, models.PermissionCabinetDelete))
	assert.True(t, r.IsModelPermission(models.ObjectTypeCabinet, models.PermissionACLEdit))

	assert.True(t, r.Inherits(models.ObjectTypeCabinet))
	assert.False(t, r.Inherits(models.ObjectTypeDocument))
}

func TestEventTypes(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		namespace string
		name      string
		label     string
		wantErr   bool
	}{
		{"mailing", "email_send", "Email sent", false},
		{"cabinets", "cabinet_created", "Cabinet created", false},
		{"cabinets", "cabinet_document_removed", "Document removed from cabinet", false},
		{"mailing", "email_receive", "", true},
		{"unknown", "email_send", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.namespace+"."+tt.name, func(t *testing.T) {
			et, err := r.EventType(tt.namespace, tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, et.Label)
			assert.Equal(t, tt.namespace+"."+tt.name, et.ID())
		})
	}

	var mailing *EventNamespace
	for _, ns := range r.EventNamespaces() {
		if ns.Namespace == "mailing" {
			mailing = &ns
		}
	}
	require.NotNil(t, mailing)
	assert.Equal(t, "Mailing", mailing.Label)
}

func TestRegisterEventTypes(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	err = r.RegisterEventTypes(EventNamespace{
		Namespace: "tags",
		Label:     "Tags",
		Types:     []EventType{{Name: "tag_attached", Label: "Tag attached"}},
	})
	require.NoError(t, err)

	_, err = r.EventType("tags", "tag_attached")
	assert.NoError(t, err)

	err = r.RegisterEventTypes(EventNamespace{
		Namespace: "mailing",
		Types:     []EventType{{Name: "email_send"}},
	})
	assert.Error(t, err)
}

func TestMenuLinks(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	names := func(links []Link) []string {
		out := make([]string, len(links))
		for i, l := range links {
			out[i] = l.Name
		}
		return out
	}

	links, err := r.MenuLinks("object", "cabinet")
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_delete", "cabinet_edit", "cabinet_child_add"}, names(links))

	links, err = r.MenuLinks("main", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"cabinet_list", "cabinet_create"}, names(links))

	links, err = r.MenuLinks("secondary", "cabinets:document_cabinet_add")
	require.NoError(t, err)
	assert.Equal(t, []string{"document_cabinet_add", "document_cabinet_remove"}, names(links))

	links, err = r.MenuLinks("secondary", "cabinets:cabinet_list")
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = r.MenuLinks("nope", "cabinet")
	assert.Error(t, err)

	l, ok := r.Link("cabinet_edit")
	require.True(t, ok)
	assert.Equal(t, "/cabinets/42/edit", l.ExpandURL("42"))
	assert.Equal(t, models.PermissionCabinetEdit, l.Permission)
}

func TestSearchFields(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.True(t, r.HasSearchField("document", "cabinets__label"))
	assert.True(t, r.HasSearchField("document_page", "document_version__document__cabinets__label"))
	assert.False(t, r.HasSearchField("cabinet", "cabinets__label"))
}

func TestParseRejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown model permission",
			yaml: `
permissions:
  - namespace: cabinets
    permissions: [{name: cabinet_view}]
model_permissions:
  cabinet: [cabinets.cabinet_edit]
`,
		},
		{
			name: "unknown link in menu",
			yaml: `
menus:
  - name: object
    bindings:
      - links: [missing]
`,
		},
		{
			name: "unknown link permission",
			yaml: `
links:
  x: {text: X, url: /x, permission: acls.acl_view}
`,
		},
		{
			name: "duplicate event type",
			yaml: `
events:
  - namespace: mailing
    types: [{name: email_send}, {name: email_send}]
`,
		},
		{
			name: "unsupported inheritance",
			yaml: `
inheritance:
  cabinet: parent
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

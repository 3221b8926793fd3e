package registry

import "cabinets/internal/domain/models"

// PermissionNamespace groups permissions under a common prefix
type PermissionNamespace struct {
	Namespace   string          `yaml:"namespace" json:"namespace"`
	Label       string          `yaml:"label" json:"label"`
	Permissions []PermissionDef `yaml:"permissions" json:"permissions"`
}

// PermissionDef declares one permission inside a namespace
type PermissionDef struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
}

// EventNamespace groups event types under a common prefix
type EventNamespace struct {
	Namespace string      `yaml:"namespace" json:"namespace"`
	Label     string      `yaml:"label" json:"label"`
	Types     []EventType `yaml:"types" json:"types"`
}

// EventType declares one event that may be committed
type EventType struct {
	Namespace string `yaml:"-" json:"namespace"` // Set during loading
	Name      string `yaml:"name" json:"name"`
	Label     string `yaml:"label" json:"label"`
}

// ID returns the fully qualified event type, e.g. "mailing.email_send"
func (t EventType) ID() string {
	return t.Namespace + "." + t.Name
}

// Link is a navigation affordance, optionally guarded by a permission.
// URL may contain an {id} placeholder for the object the link is shown for.
type Link struct {
	Name       string            `yaml:"-" json:"name"` // Set during loading
	Text       string            `yaml:"text" json:"text"`
	Method     string            `yaml:"method" json:"method"`
	URL        string            `yaml:"url" json:"url"`
	Permission models.Permission `yaml:"permission,omitempty" json:"permission,omitempty"`
}

// Menu is a named set of link bindings
type Menu struct {
	Name     string        `yaml:"name" json:"name"`
	Label    string        `yaml:"label" json:"label"`
	Bindings []MenuBinding `yaml:"bindings" json:"bindings"`
}

// MenuBinding attaches links (and submenus) to sources. A source is an
// object type ("cabinet") or a view name ("cabinets:document_cabinet_add").
// A binding without sources applies everywhere.
type MenuBinding struct {
	Sources  []string `yaml:"sources,omitempty" json:"sources,omitempty"`
	Links    []string `yaml:"links,omitempty" json:"links,omitempty"`
	Menus    []string `yaml:"menus,omitempty" json:"menus,omitempty"`
	Position int      `yaml:"position,omitempty" json:"position,omitempty"`
}

// Matches reports whether the binding applies to source
func (b MenuBinding) Matches(source string) bool {
	if len(b.Sources) == 0 {
		return true
	}
	for _, s := range b.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// SearchField declares a searchable field of a model
type SearchField struct {
	Model string `yaml:"model" json:"model"`
	Field string `yaml:"field" json:"field"`
	Label string `yaml:"label" json:"label"`
}

// InheritRoot makes an object inherit the access entries of its root ancestor
const InheritRoot = "root"

// document is the on-disk shape of registry.yaml
type document struct {
	Permissions      []PermissionNamespace                    `yaml:"permissions"`
	ModelPermissions map[models.ObjectType][]models.Permission `yaml:"model_permissions"`
	Inheritance      map[models.ObjectType]string              `yaml:"inheritance"`
	Events           []EventNamespace                          `yaml:"events"`
	Links            map[string]Link                           `yaml:"links"`
	Menus            []Menu                                    `yaml:"menus"`
	SearchFields     []SearchField                             `yaml:"search_fields"`
}

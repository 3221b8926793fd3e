package registry

import (
	"embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"cabinets/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the permission, event, navigation and search declarations.
// It is built once at startup and injected into the services that need it.
type Registry struct {
	permissions      []PermissionNamespace
	permissionIndex  map[models.Permission]PermissionDef
	modelPermissions map[models.ObjectType][]models.Permission
	inheritance      map[models.ObjectType]string
	events           []EventNamespace
	eventIndex       map[string]EventType
	links            map[string]Link
	menus            map[string]*Menu
	searchFields     []SearchField
	mu               sync.RWMutex
}

// NewRegistry loads the embedded registry.yaml
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/registry.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read registry.yaml: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry.yaml: %w", err)
	}
	return r, nil
}

// Parse builds a Registry from YAML and checks that every cross reference
// (model permissions, link permissions, menu bindings) resolves.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry: %w", err)
	}

	r := &Registry{
		permissions:      doc.Permissions,
		permissionIndex:  make(map[models.Permission]PermissionDef),
		modelPermissions: doc.ModelPermissions,
		inheritance:      doc.Inheritance,
		eventIndex:       make(map[string]EventType),
		links:            make(map[string]Link),
		menus:            make(map[string]*Menu),
		searchFields:     doc.SearchFields,
	}
	if r.modelPermissions == nil {
		r.modelPermissions = make(map[models.ObjectType][]models.Permission)
	}
	if r.inheritance == nil {
		r.inheritance = make(map[models.ObjectType]string)
	}

	for _, ns := range doc.Permissions {
		for _, p := range ns.Permissions {
			id := models.Permission(ns.Namespace + "." + p.Name)
			if _, exists := r.permissionIndex[id]; exists {
				return nil, fmt.Errorf("duplicate permission %s", id)
			}
			r.permissionIndex[id] = p
		}
	}

	for objType, perms := range r.modelPermissions {
		for _, p := range perms {
			if _, ok := r.permissionIndex[p]; !ok {
				return nil, fmt.Errorf("model %s references unknown permission %s", objType, p)
			}
		}
	}

	for objType, strategy := range r.inheritance {
		if strategy != InheritRoot {
			return nil, fmt.Errorf("model %s: unsupported inheritance %q", objType, strategy)
		}
	}

	for _, ns := range doc.Events {
		if err := r.addEventNamespace(ns); err != nil {
			return nil, err
		}
	}

	for name, link := range doc.Links {
		link.Name = name
		if link.Method == "" {
			link.Method = "GET"
		}
		if link.Permission != "" {
			if _, ok := r.permissionIndex[link.Permission]; !ok {
				return nil, fmt.Errorf("link %s references unknown permission %s", name, link.Permission)
			}
		}
		r.links[name] = link
	}

	for i := range doc.Menus {
		m := &doc.Menus[i]
		if _, exists := r.menus[m.Name]; exists {
			return nil, fmt.Errorf("duplicate menu %s", m.Name)
		}
		r.menus[m.Name] = m
	}
	for _, m := range r.menus {
		for _, b := range m.Bindings {
			for _, l := range b.Links {
				if _, ok := r.links[l]; !ok {
					return nil, fmt.Errorf("menu %s binds unknown link %s", m.Name, l)
				}
			}
			for _, sub := range b.Menus {
				if _, ok := r.menus[sub]; !ok {
					return nil, fmt.Errorf("menu %s binds unknown menu %s", m.Name, sub)
				}
			}
		}
	}

	return r, nil
}

func (r *Registry) addEventNamespace(ns EventNamespace) error {
	if ns.Namespace == "" {
		return fmt.Errorf("event namespace without name")
	}
	for i := range ns.Types {
		ns.Types[i].Namespace = ns.Namespace
		t := ns.Types[i]
		if _, exists := r.eventIndex[t.ID()]; exists {
			return fmt.Errorf("duplicate event type %s", t.ID())
		}
		r.eventIndex[t.ID()] = t
	}
	r.events = append(r.events, ns)
	return nil
}

// RegisterEventTypes declares an additional event namespace at runtime
func (r *Registry) RegisterEventTypes(ns EventNamespace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addEventNamespace(ns)
}

// Permission returns the declaration of a permission
func (r *Registry) Permission(p models.Permission) (PermissionDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.permissionIndex[p]
	return def, ok
}

// Permissions returns all declared permission namespaces (ordered as defined in YAML)
func (r *Registry) Permissions() []PermissionNamespace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.permissions
}

// ModelPermissions returns the permissions that may be granted on an object type
func (r *Registry) ModelPermissions(objType models.ObjectType) []models.Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modelPermissions[objType]
}

// IsModelPermission reports whether perm may be granted on objType
func (r *Registry) IsModelPermission(objType models.ObjectType, perm models.Permission) bool {
	return slices.Contains(r.ModelPermissions(objType), perm)
}

// Inherits reports whether objType inherits access from its root ancestor
func (r *Registry) Inherits(objType models.ObjectType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inheritance[objType] == InheritRoot
}

// EventType looks up a declared event type by namespace and name
func (r *Registry) EventType(namespace, name string) (EventType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.eventIndex[namespace+"."+name]
	if !ok {
		return EventType{}, fmt.Errorf("unknown event type: %s.%s", namespace, name)
	}
	return t, nil
}

// EventNamespaces returns all declared event namespaces
func (r *Registry) EventNamespaces() []EventNamespace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.events
}

// Link returns a link by name
func (r *Registry) Link(name string) (Link, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.links[name]
	return l, ok
}

// Menu returns a menu by name
func (r *Registry) Menu(name string) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.menus[name]
	if !ok {
		return nil, fmt.Errorf("unknown menu: %s", name)
	}
	return m, nil
}

// MenuLinks returns the links bound to a menu for a source, ordered by
// binding position. Submenus are expanded in place.
func (r *Registry) MenuLinks(menu, source string) ([]Link, error) {
	m, err := r.Menu(menu)
	if err != nil {
		return nil, err
	}

	bindings := make([]MenuBinding, 0, len(m.Bindings))
	for _, b := range m.Bindings {
		if b.Matches(source) {
			bindings = append(bindings, b)
		}
	}
	sort.SliceStable(bindings, func(i, j int) bool {
		return bindings[i].Position < bindings[j].Position
	})

	var links []Link
	for _, b := range bindings {
		for _, name := range b.Links {
			l, _ := r.Link(name)
			links = append(links, l)
		}
		for _, sub := range b.Menus {
			subLinks, err := r.MenuLinks(sub, source)
			if err != nil {
				return nil, err
			}
			links = append(links, subLinks...)
		}
	}
	return links, nil
}

// SearchFields returns the search fields declared for a model
func (r *Registry) SearchFields(model string) []SearchField {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fields []SearchField
	for _, f := range r.searchFields {
		if f.Model == model {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasSearchField reports whether model declares the field
func (r *Registry) HasSearchField(model, field string) bool {
	for _, f := range r.SearchFields(model) {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ExpandURL substitutes the {id} placeholder of a link URL
func (l Link) ExpandURL(id string) string {
	return strings.ReplaceAll(l.URL, "{id}", id)
}

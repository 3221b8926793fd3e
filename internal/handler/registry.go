package handler

import (
	"net/http"

	"cabinets/internal/httputil"
	"cabinets/internal/registry"
)

// RegistryHandler exposes the declared permissions and event types
type RegistryHandler struct {
	registry *registry.Registry
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(reg *registry.Registry) *RegistryHandler {
	return &RegistryHandler{registry: reg}
}

// ListPermissions lists the declared permissions by namespace
// GET /permissions
func (h *RegistryHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.Permissions())
}

// ListEventTypes lists the declared event types by namespace
// GET /events/types
func (h *RegistryHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.EventNamespaces())
}

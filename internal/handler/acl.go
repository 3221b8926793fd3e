package handler

import (
	"context"
	"log/slog"
	"net/http"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
	"cabinets/internal/httputil"
)

// ACLHandler manages the access entries of a cabinet
type ACLHandler struct {
	access services.AccessService
	logger *slog.Logger
}

// NewACLHandler creates a new ACL handler
func NewACLHandler(access services.AccessService, logger *slog.Logger) *ACLHandler {
	return &ACLHandler{
		access: access,
		logger: logger,
	}
}

// ListEntries lists a cabinet's access entries (requires acl_view)
// GET /cabinets/{id}/acls
func (h *ACLHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.access.ListAccess(r.Context(), httputil.GetUserID(r), models.CabinetRef(pathID(r)))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// Grant adds an access entry (requires acl_edit)
// POST /cabinets/{id}/acls/grant
func (h *ACLHandler) Grant(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.access.GrantAccess)
}

// Revoke removes an access entry (requires acl_edit)
// POST /cabinets/{id}/acls/revoke
func (h *ACLHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.access.RevokeAccess)
}

func (h *ACLHandler) change(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actorID string, entry *models.AccessEntry) error) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	entry := &models.AccessEntry{
		UserID:     form.Get("user_id"),
		ObjectType: models.ObjectTypeCabinet,
		ObjectID:   id,
		Permission: models.Permission(form.Get("permission")),
	}
	if err := apply(r.Context(), httputil.GetUserID(r), entry); err != nil {
		handleFormError(w, h.logger, err)
		return
	}

	httputil.Redirect(w, r, "/cabinets/"+id+"/acls")
}
